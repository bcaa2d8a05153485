package dashboard

import "github.com/RecoveryAshes/OdmCheck/internal/models"

// DedupeResources 资源链接去重
// 单趟从左到右扫描, 以Href为身份保留首次出现的整条记录;
// 后续重复项整条丢弃, 即使其SaveName与首条不同。输出保持首见顺序
func DedupeResources(links []models.ResourceLink) []models.ResourceLink {
	seen := make(map[string]struct{}, len(links))
	out := make([]models.ResourceLink, 0, len(links))
	for _, link := range links {
		if _, dup := seen[link.Href]; dup {
			continue
		}
		seen[link.Href] = struct{}{}
		out = append(out, link)
	}
	return out
}
