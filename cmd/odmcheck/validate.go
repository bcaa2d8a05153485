package main

import (
	"fmt"
	"os"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
)

// ValidateFlags 验证合并后的运行配置
// 在RunConfig自身校验之外补充命令行层面的检查:
// 清单文件必须在运行前就存在 (仅核对模式同样依赖清单)
func ValidateFlags(cfg models.RunConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if _, err := os.Stat(cfg.ManifestPath); err != nil {
		return fmt.Errorf("预期清单文件不可用 [%s]: %w", cfg.ManifestPath, err)
	}

	if cfg.CountriesCSV != "" {
		if _, err := os.Stat(cfg.CountriesCSV); err != nil {
			return fmt.Errorf("国家CSV文件不可用 [%s]: %w", cfg.CountriesCSV, err)
		}
	}

	if cfg.ValidateOnly && cfg.KeepOpen {
		return fmt.Errorf("--validate-only 与 --keep-open 不能同时使用 (仅核对模式不启动浏览器)")
	}

	return nil
}
