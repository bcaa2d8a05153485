package unit

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

func TestSliceRangeIndices(t *testing.T) {
	tests := []struct {
		name string
		r    models.SliceRange
		want []int
	}{
		{"连续区间", models.SliceRange{Start: 3, End: 7}, []int{3, 4, 5, 6}},
		{"步长2取偶数位", models.SliceRange{Start: 0, End: 7, Step: 2}, []int{0, 2, 4, 6}},
		{"步长2起点为奇数", models.SliceRange{Start: 1, End: 6, Step: 2}, []int{1, 3, 5}},
		{"零宽区间", models.SliceRange{Start: 5, End: 5}, []int{}},
		{"步长0按1处理", models.SliceRange{Start: 0, End: 3, Step: 0}, []int{0, 1, 2}},
		{"单元素", models.SliceRange{Start: 9, End: 10}, []int{9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Indices()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("下标序列: 得到 %v, 期望 %v", got, tt.want)
			}
			if tt.r.Count() != len(tt.want) {
				t.Errorf("Count: 得到 %d, 期望 %d", tt.r.Count(), len(tt.want))
			}
		})
	}
}

func TestSliceRangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		r       models.SliceRange
		wantErr bool
	}{
		{"合法区间", models.SliceRange{Start: 0, End: 5}, false},
		{"零宽合法", models.SliceRange{Start: 3, End: 3}, false},
		{"负起点", models.SliceRange{Start: -1, End: 5}, true},
		{"终点小于起点", models.SliceRange{Start: 5, End: 3}, true},
		{"负步长", models.SliceRange{Start: 0, End: 5, Step: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("期望错误=%v, 实际错误=%v", tt.wantErr, err)
			}
		})
	}
}

func TestCleanDirKeepsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.xlsx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("写入测试文件失败: %v", err)
		}
	}
	sub := filepath.Join(dir, "charts")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("创建子目录失败: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "keep.png"), []byte("x"), 0644); err != nil {
		t.Fatalf("写入子目录文件失败: %v", err)
	}

	removed, err := utils.CleanDir(dir)
	if err != nil {
		t.Fatalf("清理失败: %v", err)
	}
	if removed != 2 {
		t.Errorf("删除文件数: 得到 %d, 期望 2", removed)
	}
	if _, err := os.Stat(filepath.Join(sub, "keep.png")); err != nil {
		t.Error("子目录内容不应被清理 (非递归)")
	}
}

func TestCleanDirMissingDir(t *testing.T) {
	removed, err := utils.CleanDir(filepath.Join(t.TempDir(), "nonexistent"))
	if err != nil {
		t.Fatalf("目录不存在不应报错: %v", err)
	}
	if removed != 0 {
		t.Errorf("删除文件数: 得到 %d, 期望 0", removed)
	}
}

func TestLoadCountriesCSV(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantErr   bool
		wantCount int
	}{
		{
			"合法文件",
			"country_code,country_name\nAT,Austria\nEL,Greece\n",
			false,
			2,
		},
		{
			"表头带空白",
			"country_code , country_name\nAT,Austria\n",
			false,
			1,
		},
		{
			"表头错误",
			"code,name\nAT,Austria\n",
			true,
			0,
		},
		{
			"国家代码重复",
			"country_code,country_name\nAT,Austria\nAT,Albania\n",
			true,
			0,
		},
		{
			"空文件",
			"",
			true,
			0,
		},
		{
			"只有表头",
			"country_code,country_name\n",
			true,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "countries.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("写入CSV失败: %v", err)
			}

			countries, err := utils.LoadCountriesCSV(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("期望错误=%v, 实际错误=%v", tt.wantErr, err)
			}
			if !tt.wantErr && len(countries) != tt.wantCount {
				t.Errorf("国家数: 得到 %d, 期望 %d", len(countries), tt.wantCount)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{"零字节", 0, "0 B"},
		{"字节级", 512, "512.0 B"},
		{"KB边界", 1024, "1.0 KB"},
		{"MB级", 5 * 1024 * 1024, "5.0 MB"},
		{"GB级", 2 * 1024 * 1024 * 1024, "2.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := utils.FormatFileSize(tt.size); got != tt.want {
				t.Errorf("得到 %q, 期望 %q", got, tt.want)
			}
		})
	}
}

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"完全相同", "report.pdf", "report.pdf", 1.0},
		{"完全不同", "abc", "xyz", 0.0},
		{"一方为空", "report.pdf", "", 0.0},
		{"双方为空", "", "", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := models.NameSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("相似度: 得到 %.2f, 期望 %.2f", got, tt.want)
			}
		})
	}

	// 改名幅度小则相似度高
	high := models.NameSimilarity("2024_odm_factsheet_austria", "2024_odm_factsheet_austria_v2")
	low := models.NameSimilarity("2024_odm_factsheet_austria", "methodology_notes")
	if high <= low {
		t.Errorf("小幅改名相似度 (%.2f) 应高于无关名称 (%.2f)", high, low)
	}
	if high < 0.85 {
		t.Errorf("追加短后缀的相似度应接近1: 得到 %.2f", high)
	}
}

func TestTabManifestKeyCasing(t *testing.T) {
	// 清单对总览标签页用句首大写写法, 与页面可见名称不同
	if got := models.TabOpenData.DisplayName(2024); got != "Open Data in Europe 2024" {
		t.Errorf("页面可见名称: 得到 %q", got)
	}
	if got := models.TabOpenData.ManifestKey(2024); got != "Open data in Europe 2024" {
		t.Errorf("清单键: 得到 %q", got)
	}
	if got := models.TabCountryProfiles.DirName(2024); got != "Country_profiles" {
		t.Errorf("下载目录名: 得到 %q", got)
	}

	if _, ok := models.TabByManifestKey("Open data in Europe 2024", 2024); !ok {
		t.Error("清单键应能反查到总览标签页")
	}
	if _, ok := models.TabByManifestKey("Open Data in Europe 2024", 2024); ok {
		t.Error("页面可见写法不是合法清单键")
	}
}

func TestFileKeyNormalization(t *testing.T) {
	entry := models.ManifestEntry{Name: "Report.PDF", Format: "PDF"}
	key := entry.Key()
	if key.Format != "pdf" {
		t.Errorf("格式应归一为小写: 得到 %q", key.Format)
	}
	if key.Name != "Report.PDF" {
		t.Errorf("文件名保持原样: 得到 %q", key.Name)
	}
	if key.String() != "Report.PDF (pdf)" {
		t.Errorf("展示格式: 得到 %q", key.String())
	}
}
