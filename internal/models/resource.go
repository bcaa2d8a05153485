package models

import (
	"net/url"
	"path"
	"strings"
)

const (
	// ProxyFormat 代理格式
	// 该格式的资源不走自动下载, 以零字节占位文件表示其存在性
	ProxyFormat = "pdf"
)

// ChartExportOptions 图表导出菜单的四个选项 (顺序固定)
var ChartExportOptions = []string{
	"Download image - PNG",
	"Download image - JPEG",
	"Download data - XLSX",
	"Download data - JSON",
}

// ResourceLink 资源下载链接
// Href与SaveName成对出现, 去重与下载始终以整条记录为单位传递,
// 不允许拆成两个平行列表跨边界传递
type ResourceLink struct {
	Href     string `json:"href"`                // 资源绝对URL
	SaveName string `json:"save_name,omitempty"` // 锚点download属性给出的建议文件名 (可为空)
}

// FileName 从URL路径中取末段文件名
// URL解析失败时退化为按原始字符串取末段
func (r ResourceLink) FileName() string {
	raw := r.Href
	if parsed, err := url.Parse(r.Href); err == nil && parsed.Path != "" {
		raw = parsed.Path
	}
	name := path.Base(raw)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// Format 文件格式 (小写扩展名, 不含点)
func (r ResourceLink) Format() string {
	return NormalizeFormat(path.Ext(r.FileName()))
}

// IsProxy 是否为代理格式资源
func (r ResourceLink) IsProxy() bool {
	return r.Format() == ProxyFormat
}

// PlaceholderName 占位文件名
// 优先使用建议文件名, 缺失时退化为URL末段文件名
func (r ResourceLink) PlaceholderName() string {
	if r.SaveName != "" {
		return r.SaveName
	}
	return r.FileName()
}

// ChartMenu 图表导出菜单
type ChartMenu struct {
	MenuID string `json:"menu_id"` // 菜单元素id (形如 "795-menu")
	Index  int    `json:"index"`   // 在页面全量菜单列表中的下标
}

// IDPrefix 菜单id第一个连字符之前的前缀
func (c ChartMenu) IDPrefix() string {
	if i := strings.Index(c.MenuID, "-"); i >= 0 {
		return c.MenuID[:i]
	}
	return c.MenuID
}

// ListboxID 点开菜单后出现的选项列表id
// 列表id由菜单id前缀派生, 与菜单本身不在同一DOM子树下
func (c ChartMenu) ListboxID() string {
	return c.IDPrefix() + "-listbox1"
}
