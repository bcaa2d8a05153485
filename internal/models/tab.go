package models

import (
	"fmt"
	"strings"
)

// Tab 仪表盘标签页标识
// 五个标签页构成封闭集合, 每个标签页携带自己的抽取策略
// 新增标签页需要同步更新切片表配置
type Tab string

const (
	TabOpenData        Tab = "open_data_in_europe"  // 总览标签页 (名称中带年份)
	TabRecommendations Tab = "recommendations"      // 建议标签页
	TabDimensions      Tab = "dimensions"           // 维度标签页
	TabCountryProfiles Tab = "country_profiles"     // 国家档案标签页
	TabMethodResources Tab = "method_and_resources" // 方法与资源标签页
)

// AllTabs 标签页的固定访问顺序
// 下载与核对都按此顺序逐个处理
var AllTabs = []Tab{
	TabOpenData,
	TabRecommendations,
	TabDimensions,
	TabCountryProfiles,
	TabMethodResources,
}

// SubSelectorKind 标签页内的二级选择器类型
type SubSelectorKind string

const (
	SubSelectorNone       SubSelectorKind = "none"       // 无二级选择器
	SubSelectorDimensions SubSelectorKind = "dimensions" // 维度按钮 (Policy/Portal/Quality/Impact)
	SubSelectorCountries  SubSelectorKind = "countries"  // 国家按钮 (34个)
)

// DimensionNames 维度标签页的四个维度按钮 (顺序固定)
var DimensionNames = []string{"Policy", "Portal", "Quality", "Impact"}

// TabPolicy 标签页的抽取策略
type TabPolicy struct {
	HasCharts           bool            // 是否有图表导出菜单
	SubSelector         SubSelectorKind // 二级选择器类型
	ResourcesPerCountry int             // 国家模式下每个国家配对的资源数
}

// Policy 返回标签页的抽取策略
func (t Tab) Policy() TabPolicy {
	switch t {
	case TabOpenData:
		return TabPolicy{HasCharts: true, SubSelector: SubSelectorNone}
	case TabRecommendations:
		return TabPolicy{HasCharts: false, SubSelector: SubSelectorNone}
	case TabDimensions:
		return TabPolicy{HasCharts: true, SubSelector: SubSelectorDimensions}
	case TabCountryProfiles:
		return TabPolicy{HasCharts: true, SubSelector: SubSelectorCountries, ResourcesPerCountry: 2}
	case TabMethodResources:
		return TabPolicy{HasCharts: false, SubSelector: SubSelectorNone}
	}
	return TabPolicy{}
}

// Valid 检查是否为已知标签页
func (t Tab) Valid() bool {
	for _, known := range AllTabs {
		if t == known {
			return true
		}
	}
	return false
}

// DisplayName 页面上的标签页可见名称
// 总览标签页的名称中携带年份 (如 "Open Data in Europe 2024")
func (t Tab) DisplayName(year int) string {
	switch t {
	case TabOpenData:
		return fmt.Sprintf("Open Data in Europe %d", year)
	case TabRecommendations:
		return "Recommendations"
	case TabDimensions:
		return "Dimensions"
	case TabCountryProfiles:
		return "Country profiles"
	case TabMethodResources:
		return "Method and resources"
	}
	return string(t)
}

// ManifestKey 预期清单中使用的标签页键
// 注意: 上游清单对总览标签页使用句首大写写法 ("Open data in Europe 2024"),
// 与页面可见名称的大小写不一致, 此处按清单实际写法返回
func (t Tab) ManifestKey(year int) string {
	if t == TabOpenData {
		return fmt.Sprintf("Open data in Europe %d", year)
	}
	return t.DisplayName(year)
}

// DirName 下载目录名 (可见名称中的空格替换为下划线)
func (t Tab) DirName(year int) string {
	return strings.ReplaceAll(t.DisplayName(year), " ", "_")
}

// TabByManifestKey 通过清单键反查标签页
func TabByManifestKey(key string, year int) (Tab, bool) {
	for _, t := range AllTabs {
		if t.ManifestKey(year) == key {
			return t, true
		}
	}
	return "", false
}
