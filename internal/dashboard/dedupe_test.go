package dashboard

import (
	"testing"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
)

func TestDedupeResources(t *testing.T) {
	tests := []struct {
		name  string
		links []models.ResourceLink
		want  []models.ResourceLink
	}{
		{
			"无重复",
			[]models.ResourceLink{
				{Href: "https://x.eu/a.pdf"},
				{Href: "https://x.eu/b.pdf"},
			},
			[]models.ResourceLink{
				{Href: "https://x.eu/a.pdf"},
				{Href: "https://x.eu/b.pdf"},
			},
		},
		{
			"保留首见整条记录",
			[]models.ResourceLink{
				{Href: "https://x.eu/a.pdf", SaveName: "first.pdf"},
				{Href: "https://x.eu/b.pdf"},
				{Href: "https://x.eu/a.pdf", SaveName: "second.pdf"},
			},
			[]models.ResourceLink{
				{Href: "https://x.eu/a.pdf", SaveName: "first.pdf"},
				{Href: "https://x.eu/b.pdf"},
			},
		},
		{
			"SaveName不同仍按Href整条丢弃",
			[]models.ResourceLink{
				{Href: "https://x.eu/a.pdf", SaveName: "x.pdf"},
				{Href: "https://x.eu/a.pdf", SaveName: "y.pdf"},
				{Href: "https://x.eu/a.pdf", SaveName: "z.pdf"},
			},
			[]models.ResourceLink{
				{Href: "https://x.eu/a.pdf", SaveName: "x.pdf"},
			},
		},
		{
			"空列表",
			nil,
			[]models.ResourceLink{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupeResources(tt.links)
			if len(got) != len(tt.want) {
				t.Fatalf("长度不符: 得到 %d, 期望 %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("位置 %d: 得到 %+v, 期望 %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDedupeResourcesOrder(t *testing.T) {
	// 去重后输出必须保持首见顺序
	links := []models.ResourceLink{
		{Href: "https://x.eu/c.pdf"},
		{Href: "https://x.eu/a.pdf"},
		{Href: "https://x.eu/c.pdf"},
		{Href: "https://x.eu/b.pdf"},
		{Href: "https://x.eu/a.pdf"},
	}

	got := DedupeResources(links)
	want := []string{"https://x.eu/c.pdf", "https://x.eu/a.pdf", "https://x.eu/b.pdf"}
	if len(got) != len(want) {
		t.Fatalf("长度不符: 得到 %d, 期望 %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Href != w {
			t.Errorf("位置 %d: 得到 %q, 期望 %q", i, got[i].Href, w)
		}
	}
}
