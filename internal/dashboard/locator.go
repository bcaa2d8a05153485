package dashboard

import (
	"fmt"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

const (
	// ResourceAnchorQuery 整页资源下载锚点查询 (XPath)
	// 下载入口是内含"Download"文本span的锚点; 隐藏标签页的内容也保留
	// 在文档中, 此查询返回整页候选, 由切片表决定各标签页的下标区间
	ResourceAnchorQuery = "//a[span[contains(normalize-space(.), 'Download')]]"

	// ChartMenuQuery 整页图表导出菜单查询 (CSS)
	// 每个逻辑图表渲染两个combobox节点, 偶数位才是可点击的菜单
	ChartMenuQuery = "div[role='combobox'][aria-label='Save & share']"
)

// ChartTarget 一个待处理的图表导出菜单
// 同时携带菜单标识 (用于派生选项列表id) 与元素句柄 (用于点击)
type ChartTarget struct {
	Menu   models.ChartMenu
	Handle models.Element
}

// Locator 标签页定位器
// 把页面通用查询的整页候选列表按切片表切成标签页专属区间
type Locator struct {
	page  models.PageDriver
	table *models.SliceTable
	env   models.Environment
}

// NewLocator 创建定位器
func NewLocator(page models.PageDriver, table *models.SliceTable, env models.Environment) *Locator {
	return &Locator{
		page:  page,
		table: table,
		env:   env,
	}
}

// LocateResources 定位当前标签页的资源下载链接
// 返回值中的第二项是整页候选总数, 供调用方做结构探针比对。
// 下标越界或锚点缺href都按单项跳过处理, 不中止标签页
func (l *Locator) LocateResources(tab models.Tab) ([]models.ResourceLink, int, error) {
	candidates, err := l.page.Elements(ResourceAnchorQuery)
	if err != nil {
		return nil, 0, fmt.Errorf("查询资源下载锚点失败: %w", err)
	}
	total := len(candidates)
	utils.Debugf("页面共找到 %d 个资源下载锚点", total)

	r, err := l.table.ResourceRange(tab, l.env)
	if err != nil {
		return nil, total, err
	}

	links := make([]models.ResourceLink, 0, r.Count())
	for _, idx := range r.Indices() {
		if idx >= total {
			utils.Warnf("⚠️ 资源下标越界, 跳过: %d (候选总数 %d, 标签页 %s)", idx, total, tab)
			continue
		}

		href, ok, err := candidates[idx].Attribute("href")
		if err != nil {
			utils.Warnf("⚠️ 读取资源锚点href失败, 跳过下标 %d: %v", idx, err)
			continue
		}
		if !ok || href == "" {
			utils.Warnf("⚠️ 资源锚点缺少href, 跳过下标 %d (标签页 %s)", idx, tab)
			continue
		}

		saveName, _, _ := candidates[idx].Attribute("download")
		links = append(links, models.ResourceLink{Href: href, SaveName: saveName})
	}

	utils.Infof("🔎 标签页 [%s] 定位到 %d 个资源链接", tab, len(links))
	return links, total, nil
}

// LocateCharts 定位当前标签页的图表导出菜单
// 没有图表区间的标签页返回空列表。抽取数受表中MaxCharts上限约束
func (l *Locator) LocateCharts(tab models.Tab) ([]ChartTarget, error) {
	r, ok := l.table.ChartRange(tab)
	if !ok {
		return nil, nil
	}

	menus, err := l.page.Elements(ChartMenuQuery)
	if err != nil {
		return nil, fmt.Errorf("查询图表导出菜单失败: %w", err)
	}
	utils.Debugf("页面共找到 %d 个'Save & share'菜单节点", len(menus))

	targets := make([]ChartTarget, 0, r.Count())
	for _, idx := range r.Indices() {
		if len(targets) >= l.table.MaxCharts {
			utils.Warnf("⚠️ 图表数达到上限 %d, 停止抽取 (标签页 %s)", l.table.MaxCharts, tab)
			break
		}
		if idx >= len(menus) {
			utils.Warnf("⚠️ 图表下标越界, 跳过: %d (菜单总数 %d, 标签页 %s)", idx, len(menus), tab)
			continue
		}

		id, ok, err := menus[idx].Attribute("id")
		if err != nil {
			utils.Warnf("⚠️ 读取图表菜单id失败, 跳过下标 %d: %v", idx, err)
			continue
		}
		if !ok || id == "" {
			utils.Warnf("⚠️ 图表菜单缺少id, 跳过下标 %d (标签页 %s)", idx, tab)
			continue
		}

		targets = append(targets, ChartTarget{
			Menu:   models.ChartMenu{MenuID: id, Index: idx},
			Handle: menus[idx],
		})
	}

	utils.Infof("🔎 标签页 [%s] 定位到 %d 个图表菜单", tab, len(targets))
	return targets, nil
}
