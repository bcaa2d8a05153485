package dashboard

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

// Navigator 标签页导航器
// 按固定顺序串行遍历5个标签页, 驱动二级选择器与下载协调器
type Navigator struct {
	page      models.PageDriver
	locator   *Locator
	loader    *Downloader
	table     *models.SliceTable
	config    models.RunConfig
	countries []models.Country
}

// TabOutcome 单个标签页的处理结果
type TabOutcome struct {
	Tab   models.Tab
	Stats models.RunStats
	Err   error // 标签页级失败 (进入失败或定位失败), 单项失败不算
}

// NewNavigator 创建导航器
func NewNavigator(page models.PageDriver, table *models.SliceTable, countries []models.Country,
	config models.RunConfig, fallback *Fallback) *Navigator {
	return &Navigator{
		page:      page,
		locator:   NewLocator(page, table, config.Environment),
		loader:    NewDownloader(page, fallback, config.WaitTime),
		table:     table,
		config:    config,
		countries: countries,
	}
}

// VisitAllTabs 遍历全部标签页
// 一个标签页整体失败不中止运行, 记录后继续下一个
func (n *Navigator) VisitAllTabs(downloadRoot string) (models.RunStats, []TabOutcome) {
	total := models.RunStats{}
	outcomes := make([]TabOutcome, 0, len(models.AllTabs))

	for i, tab := range models.AllTabs {
		utils.Infof(strings.Repeat("-", 50))
		utils.Infof("🧭 [%d/%d] 进入标签页: %s", i+1, len(models.AllTabs), tab.DisplayName(n.config.Year))
		utils.Infof(strings.Repeat("-", 50))

		stats, err := n.visitTab(tab, downloadRoot)
		if err != nil {
			utils.Errorf("❌ 标签页处理失败 [%s]: %v", tab, err)
		} else {
			stats.TabsVisited = 1
			utils.Infof("✅ 标签页处理完成: %s (资源 %d, 图表 %d, 失败 %d)",
				tab, stats.ResourcesFetched+stats.Placeholders+stats.FallbackFetched,
				stats.ChartExports, stats.Failed)
		}

		total.Merge(stats)
		outcomes = append(outcomes, TabOutcome{Tab: tab, Stats: stats, Err: err})
	}

	return total, outcomes
}

// visitTab 处理单个标签页
func (n *Navigator) visitTab(tab models.Tab, downloadRoot string) (models.RunStats, error) {
	stats := models.RunStats{}

	if err := n.openTab(tab); err != nil {
		return stats, err
	}
	n.pause()

	tabDir := filepath.Join(downloadRoot, tab.DirName(n.config.Year))
	policy := tab.Policy()

	switch policy.SubSelector {
	case models.SubSelectorDimensions:
		n.visitDimensions(tab, tabDir, &stats)
	case models.SubSelectorCountries:
		if err := n.visitCountries(tab, tabDir, policy, &stats); err != nil {
			return stats, err
		}
		return stats, nil
	default:
		if policy.HasCharts {
			n.downloadTabCharts(tab, tabDir, &stats)
		}
	}

	links, err := n.locateCleanResources(tab)
	if err != nil {
		return stats, err
	}
	stats.Merge(n.loader.DownloadResources(tabDir, links))
	return stats, nil
}

// visitDimensions 维度标签页: 逐个激活4个维度按钮并导出各自的图表
// 资源区间与维度无关, 图表随激活的维度原地变化, 所以图表先逐维度处理,
// 资源最后统一处理一次
func (n *Navigator) visitDimensions(tab models.Tab, tabDir string, stats *models.RunStats) {
	for _, dim := range models.DimensionNames {
		if err := n.selectButton(dimensionButtonSelector(dim), dim); err != nil {
			utils.Errorf("❌ 选择维度失败 [%s]: %v", dim, err)
			continue
		}
		n.downloadTabCharts(tab, tabDir, stats)
	}
}

// visitCountries 国家档案标签页
// 资源先整体定位、去重、按国家排序一次; 之后逐国家激活按钮,
// 先导出该国图表, 再下载排序表中配对的两个资源, 全部完成才进入下一国
func (n *Navigator) visitCountries(tab models.Tab, tabDir string, policy models.TabPolicy,
	stats *models.RunStats) error {
	links, err := n.locateCleanResources(tab)
	if err != nil {
		return err
	}
	sorted := SortByCountry(links)

	per := policy.ResourcesPerCountry
	if want := len(n.countries) * per; len(sorted) != want {
		utils.Warnf("⚠️ 国家资源数与预期不符: 实际 %d, 预期 %d (%d国 × %d)",
			len(sorted), want, len(n.countries), per)
	}

	bar := utils.NewProgressBar(len(n.countries), "国家档案")
	for i, country := range n.countries {
		if err := n.selectButton(countryButtonSelector(country), country.Name); err != nil {
			utils.Errorf("❌ 选择国家失败 [%s]: %v", country.Name, err)
			_ = bar.Add(1)
			continue
		}

		n.downloadTabCharts(tab, tabDir, stats)

		lo, hi := i*per, (i+1)*per
		if lo > len(sorted) {
			lo = len(sorted)
		}
		if hi > len(sorted) {
			hi = len(sorted)
		}
		stats.Merge(n.loader.DownloadResources(tabDir, sorted[lo:hi]))
		_ = bar.Add(1)
	}
	return nil
}

// downloadTabCharts 导出当前可见状态下的标签页图表
// 定位失败降级为警告: 图表缺失不应拖垮资源下载
func (n *Navigator) downloadTabCharts(tab models.Tab, tabDir string, stats *models.RunStats) {
	charts, err := n.locator.LocateCharts(tab)
	if err != nil {
		utils.Warnf("⚠️ 定位图表失败 [%s]: %v", tab, err)
		return
	}
	stats.Merge(n.loader.DownloadCharts(tabDir, charts))
}

// locateCleanResources 定位并清洗当前标签页的资源链接
// 候选总数先过结构探针比对: 严格模式不符即中止标签页,
// 宽松模式记录警告后继续
func (n *Navigator) locateCleanResources(tab models.Tab) ([]models.ResourceLink, error) {
	links, total, err := n.locator.LocateResources(tab)
	if err != nil {
		return nil, err
	}

	if err := n.table.CheckProbeCount(n.config.Environment, total); err != nil {
		if n.config.StrictProbe {
			return nil, err
		}
		utils.Warnf("⚠️ %v", err)
	}

	clean := DedupeResources(links)
	if dropped := len(links) - len(clean); dropped > 0 {
		utils.Infof("🔁 去重丢弃 %d 个重复资源链接 (标签页 %s)", dropped, tab)
	}
	return clean, nil
}

// openTab 点击进入标签页
// 优先按role='tab'与可见名称匹配, 找不到时退化为按可见文本全页匹配
func (n *Navigator) openTab(tab models.Tab) error {
	name := tab.DisplayName(n.config.Year)

	el, found, err := n.page.FirstWithText("[role='tab']", name)
	if err == nil && found {
		if clickErr := el.Click(); clickErr == nil {
			return nil
		} else {
			utils.Warnf("⚠️ 点击标签页失败, 尝试备用入口 [%s]: %v", name, clickErr)
		}
	}

	el, found, err = n.page.FirstWithText("a, button, div, span", name)
	if err != nil {
		return fmt.Errorf("查询标签页入口失败 [%s]: %w", name, err)
	}
	if !found {
		return fmt.Errorf("找不到标签页入口: %s", name)
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("点击标签页入口失败 [%s]: %w", name, err)
	}
	return nil
}

// selectButton 点击一个二级选择按钮 (维度或国家)
func (n *Navigator) selectButton(selector, label string) error {
	btn, found, err := n.page.First(selector)
	if err != nil {
		return fmt.Errorf("查询选择按钮失败 [%s]: %w", label, err)
	}
	if !found {
		return fmt.Errorf("找不到选择按钮: %s", label)
	}
	if err := btn.Click(); err != nil {
		return fmt.Errorf("点击选择按钮失败 [%s]: %w", label, err)
	}
	utils.Infof("🖱️ 已选择: %s", label)
	n.pause()
	return nil
}

// dimensionButtonSelector 维度按钮选择器 (id为小写维度名)
func dimensionButtonSelector(name string) string {
	return fmt.Sprintf("button[id='dimension_%s'][aria-label='Select %s']", strings.ToLower(name), name)
}

// countryButtonSelector 国家按钮选择器 (id为两位国家代码)
func countryButtonSelector(c models.Country) string {
	return fmt.Sprintf("button[id='country_%s'][aria-label='Select %s']", c.Code, c.Name)
}

func (n *Navigator) pause() {
	if n.config.WaitTime > 0 {
		time.Sleep(time.Duration(n.config.WaitTime) * time.Millisecond)
	}
}
