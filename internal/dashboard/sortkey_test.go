package dashboard

import (
	"testing"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
)

func TestSortKey(t *testing.T) {
	tests := []struct {
		name        string
		href        string
		wantCountry string
		wantType    int
	}{
		{"事实表", "https://example.com/files/2024_odm_factsheet_austria.pdf", "austria", 0},
		{"问卷", "https://example.com/files/2024_odm_questionnaire_austria.pdf", "austria", 1},
		{"多段国家名保留", "https://example.com/2024_odm_questionnaire_bosnia_and_herzegovina.pdf", "bosnia_and_herzegovina", 1},
		{"数字消歧后缀剥离", "https://example.com/2024_odm_factsheet_spain_1.xlsx", "spain", 0},
		{"字母数字消歧后缀剥离", "https://example.com/2024_odm_factsheet_france_a25.pdf", "france", 0},
		{"大小写不敏感", "https://example.com/2024_ODM_Factsheet_Malta.PDF", "malta", 0},
		{"不匹配命名约定", "https://example.com/files/methodology.pdf", "methodology", 2},
		{"带查询参数", "https://example.com/2024_odm_factsheet_latvia.pdf?v=3", "latvia", 0},
		{"裸文件名", "2024_odm_questionnaire_norway.pdf", "norway", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			country, docType := SortKey(tt.href)
			if country != tt.wantCountry || docType != tt.wantType {
				t.Errorf("SortKey(%q) = (%q, %d), 期望 (%q, %d)",
					tt.href, country, docType, tt.wantCountry, tt.wantType)
			}
		})
	}
}

func TestSortByCountry(t *testing.T) {
	links := []models.ResourceLink{
		{Href: "https://x.eu/2024_odm_questionnaire_spain.pdf"},
		{Href: "https://x.eu/2024_odm_factsheet_austria.pdf"},
		{Href: "https://x.eu/2024_odm_questionnaire_austria.pdf"},
		{Href: "https://x.eu/2024_odm_factsheet_spain.pdf"},
		{Href: "https://x.eu/2024_odm_factsheet_bosnia_and_herzegovina.pdf"},
	}

	sorted := SortByCountry(links)

	want := []string{
		"https://x.eu/2024_odm_factsheet_austria.pdf",
		"https://x.eu/2024_odm_questionnaire_austria.pdf",
		"https://x.eu/2024_odm_factsheet_bosnia_and_herzegovina.pdf",
		"https://x.eu/2024_odm_factsheet_spain.pdf",
		"https://x.eu/2024_odm_questionnaire_spain.pdf",
	}
	for i, w := range want {
		if sorted[i].Href != w {
			t.Errorf("位置 %d: 得到 %q, 期望 %q", i, sorted[i].Href, w)
		}
	}

	// 输入不被修改
	if links[0].Href != "https://x.eu/2024_odm_questionnaire_spain.pdf" {
		t.Error("SortByCountry不应修改输入切片")
	}
}

func TestSortByCountryStable(t *testing.T) {
	// 同键资源 (不匹配命名约定, 同一主干) 保持到达顺序
	links := []models.ResourceLink{
		{Href: "https://x.eu/a/readme.txt", SaveName: "first"},
		{Href: "https://x.eu/b/readme.txt", SaveName: "second"},
	}

	sorted := SortByCountry(links)
	if sorted[0].SaveName != "first" || sorted[1].SaveName != "second" {
		t.Errorf("稳定排序应保持同键资源的到达顺序, 得到 %v", sorted)
	}
}
