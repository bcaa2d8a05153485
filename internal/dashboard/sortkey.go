package dashboard

import (
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
)

// resourceStemPattern 国家档案资源的文件名主干: <年份>_odm_<文档类型>_<国家slug>
var resourceStemPattern = regexp.MustCompile(`^\d{4}_odm_(factsheet|questionnaire)_(.+)$`)

// slugTrailingDigits slug末段含数字时视为消歧后缀 (如 _1, _a25), 剥离后归并;
// 纯字母末段是国家名的一部分 (如 bosnia_and_herzegovina), 必须保留
var slugTrailingDigits = regexp.MustCompile(`_[0-9a-zA-Z]*[0-9][0-9a-zA-Z]*$`)

// SortKey 国家档案资源的排序键
// 返回 (国家slug, 文档类型序号): factsheet=0, questionnaire=1, 其他=2。
// 不匹配命名约定的文件归入序号2, 按文件名主干排在对应位置而不被丢弃
func SortKey(href string) (string, int) {
	raw := href
	if parsed, err := url.Parse(href); err == nil && parsed.Path != "" {
		raw = parsed.Path
	}
	name := path.Base(raw)
	stem := strings.ToLower(strings.TrimSuffix(name, path.Ext(name)))

	m := resourceStemPattern.FindStringSubmatch(stem)
	if m == nil {
		return stem, 2
	}

	country := slugTrailingDigits.ReplaceAllString(m[2], "")
	if m[1] == "factsheet" {
		return country, 0
	}
	return country, 1
}

// SortByCountry 按 (国家slug, 文档类型) 稳定排序
// 排序后同一国家的factsheet与questionnaire相邻, 可按每国两个连续切片配对。
// 稳定性保证同键资源维持页面到达顺序, 不修改输入切片
func SortByCountry(links []models.ResourceLink) []models.ResourceLink {
	out := make([]models.ResourceLink, len(links))
	copy(out, links)

	sort.SliceStable(out, func(i, j int) bool {
		ci, ti := SortKey(out[i].Href)
		cj, tj := SortKey(out[j].Href)
		if ci != cj {
			return ci < cj
		}
		return ti < tj
	})
	return out
}
