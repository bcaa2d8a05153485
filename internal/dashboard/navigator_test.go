package dashboard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
)

func countryTestConfig() models.RunConfig {
	return models.RunConfig{
		Environment:        models.EnvDev,
		Year:               2024,
		Headless:           true,
		WaitTime:           0,
		DownloadTimeout:    5,
		DownloadDir:        "downloads",
		ManifestPath:       "expected_files.json",
		NearMatchThreshold: 0.72,
	}
}

func TestVisitCountriesPairsSortedResources(t *testing.T) {
	page := newFakePage()

	// 标签页入口
	page.firstTexts["[role='tab']|Country profiles"] = &fakeElement{}

	// 整页候选: 两国资源乱序到达, 排序后每国配对两个连续资源
	page.elements[ResourceAnchorQuery] = []models.Element{
		anchorElement("https://x.eu/2024_odm_questionnaire_austria.pdf", "2024_odm_questionnaire_austria.pdf"),
		anchorElement("https://x.eu/2024_odm_factsheet_albania.pdf", "2024_odm_factsheet_albania.pdf"),
		anchorElement("https://x.eu/2024_odm_factsheet_austria.pdf", "2024_odm_factsheet_austria.pdf"),
		anchorElement("https://x.eu/2024_odm_questionnaire_albania.pdf", "2024_odm_questionnaire_albania.pdf"),
	}

	// 国家按钮
	albaniaBtn := &fakeElement{}
	page.firsts["button[id='country_AL'][aria-label='Select Albania']"] = albaniaBtn

	table := testSliceTable()
	table.Resources["dev"]["country_profiles"] = models.SliceRange{Start: 0, End: 4}
	table.ExpectedTotals["dev"] = 4

	// 只配一个国家: 排序表中只有前两个资源 (albania对) 会被下载
	countries := []models.Country{{Name: "Albania", Code: "AL"}}
	nav := NewNavigator(page, table, countries, countryTestConfig(), nil)

	downloadRoot := t.TempDir()
	stats, err := nav.visitTab(models.TabCountryProfiles, downloadRoot)
	if err != nil {
		t.Fatalf("标签页处理失败: %v", err)
	}

	if albaniaBtn.clicks != 1 {
		t.Errorf("国家按钮点击次数: 得到 %d, 期望 1", albaniaBtn.clicks)
	}
	if stats.Placeholders != 2 {
		t.Errorf("占位文件数: 得到 %d, 期望 2 (每国配对两个资源)", stats.Placeholders)
	}

	tabDir := filepath.Join(downloadRoot, "Country_profiles")
	for _, name := range []string{
		"2024_odm_factsheet_albania.pdf",
		"2024_odm_questionnaire_albania.pdf",
	} {
		if _, statErr := os.Stat(filepath.Join(tabDir, name)); statErr != nil {
			t.Errorf("albania配对资源未落盘: %s", name)
		}
	}
	// austria的资源不属于首个国家的配对区间
	if _, statErr := os.Stat(filepath.Join(tabDir, "2024_odm_factsheet_austria.pdf")); statErr == nil {
		t.Error("排序表中不属于该国配对区间的资源不应被下载")
	}
}

func TestVisitTabOpenFailure(t *testing.T) {
	page := newFakePage() // 没有任何标签页入口
	nav := NewNavigator(page, testSliceTable(), models.DefaultCountries, countryTestConfig(), nil)

	_, err := nav.visitTab(models.TabRecommendations, t.TempDir())
	if err == nil {
		t.Fatal("找不到标签页入口应返回错误")
	}
}

func TestVisitTabFallbackEntry(t *testing.T) {
	// role='tab'缺失时退化为按可见文本全页匹配
	page := newFakePage()
	entry := &fakeElement{}
	page.firstTexts["a, button, div, span|Recommendations"] = entry
	page.elements[ResourceAnchorQuery] = []models.Element{
		anchorElement("https://x.eu/a.pdf", "a.pdf"),
		anchorElement("https://x.eu/b.pdf", "b.pdf"),
		anchorElement("https://x.eu/c.pdf", "c.pdf"),
		anchorElement("https://x.eu/rec.pdf", "rec.pdf"),
	}

	table := testSliceTable()
	table.ExpectedTotals["dev"] = 4

	nav := NewNavigator(page, table, models.DefaultCountries, countryTestConfig(), nil)

	stats, err := nav.visitTab(models.TabRecommendations, t.TempDir())
	if err != nil {
		t.Fatalf("备用入口应生效: %v", err)
	}
	if entry.clicks != 1 {
		t.Errorf("备用入口点击次数: 得到 %d, 期望 1", entry.clicks)
	}
	// recommendations区间 [3, 4): 只有rec.pdf
	if stats.Placeholders != 1 {
		t.Errorf("占位文件数: 得到 %d, 期望 1", stats.Placeholders)
	}
}

func TestVisitTabStrictProbeMismatch(t *testing.T) {
	page := newFakePage()
	page.firstTexts["[role='tab']|Recommendations"] = &fakeElement{}
	page.elements[ResourceAnchorQuery] = []models.Element{
		anchorElement("https://x.eu/a.pdf", ""),
	}

	cfg := countryTestConfig()
	cfg.StrictProbe = true

	// 候选总数1与表中预期41不符
	nav := NewNavigator(page, testSliceTable(), models.DefaultCountries, cfg, nil)

	_, err := nav.visitTab(models.TabRecommendations, t.TempDir())
	if err == nil {
		t.Fatal("严格模式下候选数不符应中止标签页")
	}
}
