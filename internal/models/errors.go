package models

import "fmt"

// ValidationError 校验错误
// 表示清单条目、国家列表或配置字段校验失败的详细信息
type ValidationError struct {
	// Field 出错的字段 (如 "name", "format", "code")
	Field string

	// Item 出错的条目标识 (文件名、国家代码等)
	Item string

	// Reason 错误原因
	Reason string

	// Suggestion 修复建议 (可选)
	Suggestion string
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("校验失败 [%s]: %s", e.Item, e.Reason)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (建议: %s)", e.Suggestion)
	}
	return msg
}

// ConfigError 配置文件错误
// 表示清单、切片表或应用配置解析失败
type ConfigError struct {
	// FilePath 配置文件路径
	FilePath string

	// Cause 底层错误 (如json.SyntaxError、viper解析错误)
	Cause error
}

// Error 实现error接口
func (e *ConfigError) Error() string {
	return fmt.Sprintf("配置文件错误 [%s]: %v", e.FilePath, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
