package utils

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
)

// ManifestValidator 验证预期清单的内容质量
// 清单能解析就不算致命, 内容问题 (空名、可疑格式、重复项、未知标签页)
// 以警告形式上报, 让使用者在核对前知道清单本身有多干净
type ManifestValidator struct {
	// formatRegex 合理的格式写法: 小写字母数字, 1-8位
	formatRegex *regexp.Regexp
}

// NewManifestValidator 创建清单验证器
func NewManifestValidator() *ManifestValidator {
	return &ManifestValidator{
		formatRegex: regexp.MustCompile(`^[a-z0-9]{1,8}$`),
	}
}

// ValidateName 验证文件名
func (mv *ManifestValidator) ValidateName(name string) error {
	if name == "" {
		return &models.ValidationError{
			Field:  "name",
			Reason: "清单条目文件名不能为空",
		}
	}
	return nil
}

// ValidateFormat 验证格式写法
func (mv *ManifestValidator) ValidateFormat(format string) error {
	if !mv.formatRegex.MatchString(format) {
		return &models.ValidationError{
			Field:      "format",
			Item:       format,
			Reason:     "格式写法可疑 (应为1-8位小写字母数字)",
			Suggestion: "使用小写扩展名, 不含点 (如 'pdf', 'xlsx')",
		}
	}
	return nil
}

// Validate 验证整份清单, 返回警告列表
// 标签页按键排序遍历, 警告顺序确定
func (mv *ManifestValidator) Validate(manifest models.Manifest, year int) []string {
	var warnings []string

	tabKeys := manifest.TabKeys()
	sort.Strings(tabKeys)

	for _, tabKey := range tabKeys {
		if _, known := models.TabByManifestKey(tabKey, year); !known {
			warnings = append(warnings,
				fmt.Sprintf("清单包含未知标签页键: %q (年度 %d)", tabKey, year))
		}

		seen := make(map[models.FileKey]bool)
		for i, entry := range manifest[tabKey] {
			if entry.Name == "" && entry.Format == "" {
				continue // 清单中的空占位条目, 集合阶段直接跳过
			}

			if err := mv.ValidateName(entry.Name); err != nil {
				warnings = append(warnings,
					fmt.Sprintf("[%s] 条目 %d: %v", tabKey, i+1, err))
			}
			if err := mv.ValidateFormat(entry.Format); err != nil {
				warnings = append(warnings,
					fmt.Sprintf("[%s] 条目 %d (%s): %v", tabKey, i+1, entry.Name, err))
			}

			key := entry.Key()
			if seen[key] {
				warnings = append(warnings,
					fmt.Sprintf("[%s] 重复条目将按集合语义收拢: %s", tabKey, key))
			}
			seen[key] = true
		}
	}

	return warnings
}
