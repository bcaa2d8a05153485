package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
)

const (
	// DefaultSlicesFile 默认切片表路径
	DefaultSlicesFile = "configs/slices.yaml"

	// MaxConfigFileSize 配置文件最大大小 (1MB)
	MaxConfigFileSize = 1 * 1024 * 1024
)

//go:embed slices_template.yaml
var defaultSlicesTemplate string

// SliceTableLoader 切片表加载器
// 切片表是版本化的外部配置: 上游页面结构变化时发布新表即可,
// 不需要改代码。文件不存在时自动落一份内置模板
type SliceTableLoader struct {
	configPath string
}

// NewSliceTableLoader 创建切片表加载器
func NewSliceTableLoader(configPath string) *SliceTableLoader {
	if configPath == "" {
		configPath = DefaultSlicesFile
	}
	return &SliceTableLoader{
		configPath: configPath,
	}
}

// EnsureConfigExists 确保切片表文件存在, 不存在则写入内置模板
func (stl *SliceTableLoader) EnsureConfigExists() error {
	if _, err := os.Stat(stl.configPath); os.IsNotExist(err) {
		dir := filepath.Dir(stl.configPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("无法创建配置目录 [%s]: %w", dir, err)
		}

		if err := os.WriteFile(stl.configPath, []byte(defaultSlicesTemplate), 0644); err != nil {
			return fmt.Errorf("无法生成切片表文件 [%s]: %w", stl.configPath, err)
		}
	}
	return nil
}

// ValidateFileSize 验证切片表文件大小是否在限制内
func (stl *SliceTableLoader) ValidateFileSize() error {
	info, err := os.Stat(stl.configPath)
	if err != nil {
		return fmt.Errorf("无法读取切片表文件信息 [%s]: %w", stl.configPath, err)
	}

	if info.Size() > MaxConfigFileSize {
		return &models.ConfigError{
			FilePath: stl.configPath,
			Cause: fmt.Errorf("切片表文件过大: %d 字节 (最大 %d 字节)",
				info.Size(), MaxConfigFileSize),
		}
	}

	return nil
}

// LoadTable 加载并校验切片表
// 执行流程:
//  1. 确保文件存在 (不存在则写入内置模板)
//  2. 验证文件大小
//  3. 使用Viper解析YAML并绑定到SliceTable
//  4. 整表校验 (版本、区间覆盖、上限)
//
// 与预期清单一样, 切片表非法是致命配置错误, 必须在浏览器启动前失败
func (stl *SliceTableLoader) LoadTable() (*models.SliceTable, error) {
	if err := stl.EnsureConfigExists(); err != nil {
		return nil, err
	}

	if err := stl.ValidateFileSize(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(stl.configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, &models.ConfigError{
			FilePath: stl.configPath,
			Cause:    err,
		}
	}

	var table models.SliceTable
	if err := v.Unmarshal(&table); err != nil {
		return nil, &models.ConfigError{
			FilePath: stl.configPath,
			Cause:    fmt.Errorf("切片表绑定失败: %w", err),
		}
	}

	if err := table.Validate(); err != nil {
		return nil, &models.ConfigError{
			FilePath: stl.configPath,
			Cause:    fmt.Errorf("切片表校验失败: %w", err),
		}
	}

	return &table, nil
}
