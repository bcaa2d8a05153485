package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
)

func TestDownloadResourcesProxyPlaceholder(t *testing.T) {
	page := newFakePage()
	loader := NewDownloader(page, nil, 0)
	tabDir := t.TempDir()

	links := []models.ResourceLink{
		{Href: "https://x.eu/2024_odm_factsheet_austria.pdf", SaveName: "2024_odm_factsheet_austria.pdf"},
	}
	stats := loader.DownloadResources(tabDir, links)

	if stats.Placeholders != 1 {
		t.Errorf("占位文件数: 得到 %d, 期望 1", stats.Placeholders)
	}
	if stats.Failed != 0 {
		t.Errorf("失败数: 得到 %d, 期望 0", stats.Failed)
	}

	info, err := os.Stat(filepath.Join(tabDir, "2024_odm_factsheet_austria.pdf"))
	if err != nil {
		t.Fatalf("占位文件未创建: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("占位文件必须是零字节, 得到 %d", info.Size())
	}
}

func TestDownloadResourcesProxyNameFromURL(t *testing.T) {
	// download属性缺失时占位文件名退化为URL末段
	page := newFakePage()
	loader := NewDownloader(page, nil, 0)
	tabDir := t.TempDir()

	links := []models.ResourceLink{
		{Href: "https://x.eu/files/report_2024.pdf"},
	}
	stats := loader.DownloadResources(tabDir, links)

	if stats.Placeholders != 1 {
		t.Fatalf("占位文件数: 得到 %d, 期望 1", stats.Placeholders)
	}
	if _, err := os.Stat(filepath.Join(tabDir, "report_2024.pdf")); err != nil {
		t.Errorf("占位文件应以URL末段命名: %v", err)
	}
}

func TestDownloadResourcesInteractive(t *testing.T) {
	page := newFakePage()
	href := "https://x.eu/2024_odm_factsheet_austria.xlsx"
	anchor := anchorElement(href, "")
	page.firsts[fmt.Sprintf("a[href='%s']", href)] = anchor

	loader := NewDownloader(page, nil, 0)
	tabDir := t.TempDir()

	stats := loader.DownloadResources(tabDir, []models.ResourceLink{{Href: href}})

	if stats.ResourcesFetched != 1 {
		t.Errorf("交互下载成功数: 得到 %d, 期望 1", stats.ResourcesFetched)
	}
	if anchor.clicks != 1 {
		t.Errorf("锚点点击次数: 得到 %d, 期望 1", anchor.clicks)
	}
	if stats.TotalSize != 4 {
		t.Errorf("下载大小: 得到 %d, 期望 4", stats.TotalSize)
	}
}

func TestDownloadResourcesMissingAnchorNoFallback(t *testing.T) {
	page := newFakePage()
	loader := NewDownloader(page, nil, 0)
	tabDir := t.TempDir()

	stats := loader.DownloadResources(tabDir, []models.ResourceLink{
		{Href: "https://x.eu/gone.xlsx"},
	})

	if stats.Failed != 1 {
		t.Errorf("找不到锚点且无兜底应计失败: 得到 %d, 期望 1", stats.Failed)
	}
	if stats.ResourcesFetched != 0 {
		t.Errorf("不应有成功下载: 得到 %d", stats.ResourcesFetched)
	}
}

func TestDownloadChartsAllOptions(t *testing.T) {
	page := newFakePage()

	menu := menuElement("795-menu")
	listbox := &fakeElement{textChildren: map[string]models.Element{}}
	for _, option := range models.ChartExportOptions {
		listbox.textChildren["li|"+option] = &fakeElement{text: option}
	}
	page.firsts["ul[id='795-listbox1']"] = listbox

	loader := NewDownloader(page, nil, 0)
	tabDir := t.TempDir()

	charts := []ChartTarget{
		{Menu: models.ChartMenu{MenuID: "795-menu", Index: 0}, Handle: menu},
	}
	stats := loader.DownloadCharts(tabDir, charts)

	if stats.ChartsProcessed != 1 {
		t.Errorf("处理图表数: 得到 %d, 期望 1", stats.ChartsProcessed)
	}
	if stats.ChartExports != 4 {
		t.Errorf("导出成功数: 得到 %d, 期望 4", stats.ChartExports)
	}
	// 每个选项前重新打开菜单
	if menu.clicks != 4 {
		t.Errorf("菜单打开次数: 得到 %d, 期望 4", menu.clicks)
	}
	// 每个选项后点击空白处关闭菜单
	if page.clickAts != 4 {
		t.Errorf("空白处点击次数: 得到 %d, 期望 4", page.clickAts)
	}
	// 图表处理完后下滚
	if len(page.scrolls) != 1 || page.scrolls[0] != chartScrollDelta {
		t.Errorf("页面下滚: 得到 %v, 期望 [%d]", page.scrolls, chartScrollDelta)
	}
	if menu.scrolled != 1 {
		t.Errorf("图表应先滚动到可见: 得到 %d 次", menu.scrolled)
	}
}

func TestDownloadChartsFailureIsolation(t *testing.T) {
	// 找不到选项列表时4个选项逐个失败, 但后续图表不受影响
	page := newFakePage()

	broken := menuElement("100-menu")
	good := menuElement("200-menu")
	listbox := &fakeElement{textChildren: map[string]models.Element{}}
	for _, option := range models.ChartExportOptions {
		listbox.textChildren["li|"+option] = &fakeElement{text: option}
	}
	page.firsts["ul[id='200-listbox1']"] = listbox

	loader := NewDownloader(page, nil, 0)
	tabDir := t.TempDir()

	charts := []ChartTarget{
		{Menu: models.ChartMenu{MenuID: "100-menu", Index: 0}, Handle: broken},
		{Menu: models.ChartMenu{MenuID: "200-menu", Index: 2}, Handle: good},
	}
	stats := loader.DownloadCharts(tabDir, charts)

	if stats.ChartsProcessed != 2 {
		t.Errorf("处理图表数: 得到 %d, 期望 2", stats.ChartsProcessed)
	}
	if stats.Failed != 4 {
		t.Errorf("失败数: 得到 %d, 期望 4 (坏图表的4个选项)", stats.Failed)
	}
	if stats.ChartExports != 4 {
		t.Errorf("导出成功数: 得到 %d, 期望 4 (好图表的4个选项)", stats.ChartExports)
	}
}

func TestDownloadResourcesEmpty(t *testing.T) {
	page := newFakePage()
	loader := NewDownloader(page, nil, 0)

	stats := loader.DownloadResources(t.TempDir(), nil)
	if stats.ResourcesPlanned != 0 || stats.Failed != 0 {
		t.Errorf("空批次应零统计: %+v", stats)
	}
}
