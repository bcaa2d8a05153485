package utils

import (
	"net/url"
	"strings"
)

var (
	// SensitiveKeywords 敏感配置项名称关键字 (用于脱敏)
	SensitiveKeywords = []string{
		"password",
		"secret",
		"token",
		"credential",
		"key",
	}
)

// CredentialRedactor 凭据脱敏器
// 凭据来自环境变量, 日志中出现的任何值与URL都必须先过脱敏
type CredentialRedactor struct {
	sensitiveKeywords []string
}

// NewCredentialRedactor 创建凭据脱敏器
func NewCredentialRedactor() *CredentialRedactor {
	return &CredentialRedactor{
		sensitiveKeywords: SensitiveKeywords,
	}
}

// IsSensitiveKey 检查配置项名称是否敏感
func (cr *CredentialRedactor) IsSensitiveKey(name string) bool {
	nameLower := strings.ToLower(name)
	for _, keyword := range cr.sensitiveKeywords {
		if strings.Contains(nameLower, keyword) {
			return true
		}
	}
	return false
}

// RedactValue 脱敏单个值
// 长值显示前4位+后4位, 短值完全隐藏
func (cr *CredentialRedactor) RedactValue(value string) string {
	if value == "" {
		return ""
	}
	if len(value) > 8 {
		return value[:4] + "***" + value[len(value)-4:]
	}
	return "***"
}

// RedactURL 脱敏URL中的userinfo部分
// 带内嵌凭据的URL (user:pass@host) 在日志中只保留用户名
func (cr *CredentialRedactor) RedactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}

	if _, hasPass := parsed.User.Password(); hasPass {
		parsed.User = url.UserPassword(parsed.User.Username(), "***")
	}
	return parsed.String()
}

// RedactMap 脱敏配置map, 返回可安全写日志的副本
// 敏感键的值被脱敏, 其余原样保留
func (cr *CredentialRedactor) RedactMap(values map[string]string) map[string]string {
	result := make(map[string]string, len(values))
	for name, value := range values {
		if cr.IsSensitiveKey(name) {
			result[name] = cr.RedactValue(value)
		} else {
			result[name] = value
		}
	}
	return result
}
