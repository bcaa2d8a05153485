package models

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FileKey 核对比对键 (文件名 + 小写格式)
// 清单与磁盘扫描双方都归一到该键后做集合运算
type FileKey struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}

// String 渲染为 "name (fmt)" 形式 (报告中的展示格式)
func (k FileKey) String() string {
	return fmt.Sprintf("%s (%s)", k.Name, k.Format)
}

// ManifestEntry 清单中的一个预期文件
type ManifestEntry struct {
	Name   string `json:"name"`   // 文件名 (含扩展名)
	Format string `json:"format"` // 扩展名 (不含点)
}

// Key 归一化比对键 (格式转小写)
func (e ManifestEntry) Key() FileKey {
	return FileKey{Name: e.Name, Format: strings.ToLower(e.Format)}
}

// Manifest 预期文件清单
// 键为清单中的标签页名称, 值为该标签页下的预期文件列表
type Manifest map[string][]ManifestEntry

// LoadManifest 从JSON文件加载预期清单
// 文件缺失或JSON非法是致命配置错误, 必须在任何浏览器交互之前失败
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{
			FilePath: path,
			Cause:    fmt.Errorf("读取预期清单失败: %w", err),
		}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ConfigError{
			FilePath: path,
			Cause:    fmt.Errorf("预期清单JSON解析失败: %w", err),
		}
	}

	return m, nil
}

// ExpectedSet 某标签页的预期文件集合
// 重复的(name, format)条目在集合语义下收拢为一项
func (m Manifest) ExpectedSet(tabKey string) map[FileKey]struct{} {
	set := make(map[FileKey]struct{})
	for _, entry := range m[tabKey] {
		if entry.Name == "" && entry.Format == "" {
			continue
		}
		set[entry.Key()] = struct{}{}
	}
	return set
}

// TabKeys 清单中出现的标签页键 (保持JSON中不可依赖顺序, 调用方自行排序)
func (m Manifest) TabKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
