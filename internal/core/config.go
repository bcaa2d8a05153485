package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	Run     RunSettings   `mapstructure:"run"`
	Logging LoggingConfig `mapstructure:"logging"`
	Slices  SlicesConfig  `mapstructure:"slices"`
	Report  ReportConfig  `mapstructure:"report"`
}

// RunSettings 运行配置段 (配置文件中的run节)
type RunSettings struct {
	Environment        string  `mapstructure:"environment"`
	Year               int     `mapstructure:"year"`
	Headless           bool    `mapstructure:"headless"`
	WaitTime           int     `mapstructure:"wait_time"`
	DownloadTimeout    int     `mapstructure:"download_timeout"`
	DownloadDir        string  `mapstructure:"download_dir"`
	ManifestPath       string  `mapstructure:"manifest_path"`
	CountriesCSV       string  `mapstructure:"countries_csv"`
	StrictProbe        bool    `mapstructure:"strict_probe"`
	NearMatchThreshold float64 `mapstructure:"near_match_threshold"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level       string         `mapstructure:"level"`
	LogDir      string         `mapstructure:"log_dir"`
	FileEnabled bool           `mapstructure:"file_enabled"`
	Rotation    RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// SlicesConfig 切片表配置
type SlicesConfig struct {
	Path string `mapstructure:"path"`
}

// ReportConfig 报告输出配置
type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoadConfig 加载配置文件
// configPath为空时按 ./configs, ., ~/.odmcheck 顺序搜索config.yaml;
// 文件不存在不算错误, 全部使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".odmcheck"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在, 使用默认值
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 运行配置默认值
	v.SetDefault("run.environment", "PROD")
	v.SetDefault("run.year", 2024)
	v.SetDefault("run.headless", true)
	v.SetDefault("run.wait_time", 1000)
	v.SetDefault("run.download_timeout", 30)
	v.SetDefault("run.download_dir", "downloads")
	v.SetDefault("run.manifest_path", "expected_files.json")
	v.SetDefault("run.countries_csv", "")
	v.SetDefault("run.strict_probe", false)
	v.SetDefault("run.near_match_threshold", 0.72)

	// 日志配置默认值
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.file_enabled", true)
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)

	// 切片表配置默认值
	v.SetDefault("slices.path", "configs/slices.yaml")

	// 报告配置默认值
	v.SetDefault("report.dir", "reports")
}
