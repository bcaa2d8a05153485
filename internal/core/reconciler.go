package core

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

// Reconciler 下载核对器
// 把下载目录的实际状态与预期清单做集合比对 (缺失/多余/匹配),
// 纯读操作, 不触碰浏览器, 对同一磁盘状态重复执行结果逐字节一致
type Reconciler struct {
	manifest  models.Manifest
	root      string
	year      int
	threshold float64
}

// NewReconciler 创建核对器
func NewReconciler(manifest models.Manifest, root string, year int, nearMatchThreshold float64) *Reconciler {
	return &Reconciler{
		manifest:  manifest,
		root:      root,
		year:      year,
		threshold: nearMatchThreshold,
	}
}

// Reconcile 对清单中的每个标签页执行核对
// 清单键能反查到已知标签页的扫描对应目录, 反查不到的按空目录处理
// (该标签页的全部预期文件记为缺失)。标签页按键排序遍历, 输出确定
func (r *Reconciler) Reconcile() map[string]*models.TabResult {
	tabKeys := r.manifest.TabKeys()
	sort.Strings(tabKeys)

	results := make(map[string]*models.TabResult, len(tabKeys))
	for _, tabKey := range tabKeys {
		var records []models.ArtifactInfo
		if tab, known := models.TabByManifestKey(tabKey, r.year); known {
			records = r.scanTabDir(filepath.Join(r.root, tab.DirName(r.year)))
		} else {
			utils.Warnf("⚠️ 清单标签页键无法映射到下载目录: %q", tabKey)
		}
		results[tabKey] = r.reconcileTab(tabKey, records)
	}
	return results
}

// scanTabDir 扫描标签页下载目录 (非递归)
// 目录不存在按空处理; 子目录跳过。os.ReadDir已按文件名排序
func (r *Reconciler) scanTabDir(dir string) []models.ArtifactInfo {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			utils.Warnf("⚠️ 扫描下载目录失败 [%s]: %v", dir, err)
		}
		return nil
	}

	records := make([]models.ArtifactInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			utils.Warnf("⚠️ 读取文件信息失败 [%s]: %v", entry.Name(), err)
			continue
		}
		records = append(records, models.ArtifactInfo{
			Name:   entry.Name(),
			Format: models.NormalizeFormat(filepath.Ext(entry.Name())),
			Size:   info.Size(),
		})
	}
	return records
}

// reconcileTab 单个标签页的集合比对
func (r *Reconciler) reconcileTab(tabKey string, records []models.ArtifactInfo) *models.TabResult {
	expected := r.manifest.ExpectedSet(tabKey)

	downloaded := make(map[models.FileKey]struct{}, len(records))
	for _, rec := range records {
		downloaded[rec.Key()] = struct{}{}
	}

	result := &models.TabResult{
		ExpectedCount:     len(expected),
		DownloadedCount:   len(downloaded),
		MissingFiles:      diffKeys(expected, downloaded),
		ExtraFiles:        diffKeys(downloaded, expected),
		MatchedFiles:      intersectKeys(expected, downloaded),
		DownloadedDetails: records,
	}
	result.MatchedCount = len(result.MatchedFiles)

	// 零字节检测: 代理格式除外, 零字节是其正确状态
	for _, rec := range records {
		if rec.Size == 0 && rec.Key().Format != models.ProxyFormat {
			result.ZeroSizeFiles = append(result.ZeroSizeFiles, rec.Key().String())
		}
	}
	sort.Strings(result.ZeroSizeFiles)
	result.ZeroSizeCount = len(result.ZeroSizeFiles)

	result.NearMatches = r.findNearMatches(expected, downloaded)
	return result
}

// findNearMatches 疑似改名配对
// 缺失项与多余项同格式且名称相似度达到阈值时给出提示;
// 贪心配对, 每个多余项至多被一个缺失项认领
func (r *Reconciler) findNearMatches(expected, downloaded map[models.FileKey]struct{}) []models.NearMatch {
	missing := sortedKeys(subtract(expected, downloaded))
	extra := sortedKeys(subtract(downloaded, expected))

	claimed := make(map[models.FileKey]bool, len(extra))
	var matches []models.NearMatch
	for _, miss := range missing {
		bestSim := 0.0
		var best models.FileKey
		found := false
		for _, ext := range extra {
			if claimed[ext] || ext.Format != miss.Format {
				continue
			}
			if sim := models.NameSimilarity(miss.Name, ext.Name); sim >= r.threshold && sim > bestSim {
				bestSim = sim
				best = ext
				found = true
			}
		}
		if found {
			claimed[best] = true
			matches = append(matches, models.NearMatch{
				Missing:    miss.Name,
				Extra:      best.Name,
				Format:     miss.Format,
				Similarity: bestSim,
			})
		}
	}
	return matches
}

// subtract 集合差 a - b
func subtract(a, b map[models.FileKey]struct{}) map[models.FileKey]struct{} {
	out := make(map[models.FileKey]struct{})
	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// diffKeys 集合差的展示形式 ("name (fmt)", 已排序)
func diffKeys(a, b map[models.FileKey]struct{}) []string {
	out := make([]string, 0)
	for k := range subtract(a, b) {
		out = append(out, k.String())
	}
	sort.Strings(out)
	return out
}

// intersectKeys 集合交的展示形式 ("name (fmt)", 已排序)
func intersectKeys(a, b map[models.FileKey]struct{}) []string {
	out := make([]string, 0)
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k.String())
		}
	}
	sort.Strings(out)
	return out
}

// sortedKeys 集合的确定性遍历顺序
func sortedKeys(set map[models.FileKey]struct{}) []models.FileKey {
	keys := make([]models.FileKey, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].Format < keys[j].Format
	})
	return keys
}
