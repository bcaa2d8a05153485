package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Environment 运行环境
type Environment string

const (
	EnvDev  Environment = "DEV"  // 开发环境 (edp.dev.agiledrop.com)
	EnvProd Environment = "PROD" // 生产环境 (data.europa.eu)
)

// ParseEnvironment 解析环境标识 (大小写不敏感)
func ParseEnvironment(s string) (Environment, error) {
	env := Environment(strings.ToUpper(strings.TrimSpace(s)))
	if env != EnvDev && env != EnvProd {
		return "", fmt.Errorf("无效的环境: %q, 必须是DEV或PROD", s)
	}
	return env, nil
}

// Mode 切片表使用的小写模式键
func (e Environment) Mode() string {
	return strings.ToLower(string(e))
}

// LoginURL 环境对应的仪表盘登录入口
func (e Environment) LoginURL(year int) string {
	if e == EnvDev {
		return fmt.Sprintf("https://edp.dev.agiledrop.com/en/open-data-maturity/%d", year)
	}
	return fmt.Sprintf("https://data.europa.eu/en/open-data-maturity/%d", year)
}

// CredentialEnvNames 凭据环境变量名 (HTTP基本认证)
func (e Environment) CredentialEnvNames() (userVar, passVar string) {
	return "USERNAME_ODM_" + string(e), "PASSWORD_ODM_" + string(e)
}

// RunStatus 运行状态
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"   // 待执行
	RunStatusRunning   RunStatus = "running"   // 执行中
	RunStatusCompleted RunStatus = "completed" // 已完成
	RunStatusFailed    RunStatus = "failed"    // 失败
)

// RunConfig 一次核对运行的配置
// 由命令行与配置文件合并得到, 经构造函数显式传入各组件, 不读全局状态
type RunConfig struct {
	Environment        Environment `json:"environment"`             // DEV或PROD
	Year               int         `json:"year"`                    // 年度 (影响入口URL、清单标签页键与国家列表)
	Headless           bool        `json:"headless"`                // 无头模式
	WaitTime           int         `json:"wait_time"`               // 交互后缓冲等待(毫秒) (默认:1000)
	DownloadTimeout    int         `json:"download_timeout"`        // 单个下载等待超时(秒) (默认:30)
	DownloadDir        string      `json:"download_dir"`            // 下载根目录
	ManifestPath       string      `json:"manifest_path"`           // 预期清单路径
	CountriesCSV       string      `json:"countries_csv,omitempty"` // 国家CSV路径模板目录 (可选, 覆盖内置列表)
	StrictProbe        bool        `json:"strict_probe"`            // 结构探针不一致时中止运行
	SkipClean          bool        `json:"skip_clean"`              // 跳过启动清理
	KeepOpen           bool        `json:"keep_open"`               // 运行结束后保持浏览器打开
	ValidateOnly       bool        `json:"validate_only"`           // 仅核对已下载文件, 不启动浏览器
	NearMatchThreshold float64     `json:"near_match_threshold"`    // 疑似改名相似度阈值 (默认:0.72)
}

// Validate 验证运行配置
func (c *RunConfig) Validate() error {
	if c.Environment != EnvDev && c.Environment != EnvProd {
		return fmt.Errorf("环境必须是DEV或PROD")
	}
	if c.Year < 2015 || c.Year > 2099 {
		return fmt.Errorf("年度必须在2015-2099之间")
	}
	if c.WaitTime < 0 || c.WaitTime > 60000 {
		return fmt.Errorf("等待时间必须在0-60000毫秒之间")
	}
	if c.DownloadTimeout < 1 || c.DownloadTimeout > 600 {
		return fmt.Errorf("下载超时必须在1-600秒之间")
	}
	if c.DownloadDir == "" {
		return fmt.Errorf("下载目录不能为空")
	}
	if c.ManifestPath == "" {
		return fmt.Errorf("预期清单路径不能为空")
	}
	if c.NearMatchThreshold < 0.0 || c.NearMatchThreshold > 1.0 {
		return fmt.Errorf("相似度阈值必须在0.0-1.0之间")
	}
	return nil
}

// RunTask 一次核对运行
type RunTask struct {
	// 基本信息
	ID          string     `json:"id"`                     // 运行唯一ID (UUID)
	LoginURL    string     `json:"login_url"`              // 登录入口
	CreatedAt   time.Time  `json:"created_at"`             // 创建时间
	StartedAt   *time.Time `json:"started_at,omitempty"`   // 开始时间
	CompletedAt *time.Time `json:"completed_at,omitempty"` // 完成时间

	// 配置参数
	Config RunConfig `json:"config"` // 运行配置

	// 执行状态
	Status RunStatus `json:"status"` // 运行状态

	// 统计信息
	Stats RunStats `json:"stats"` // 运行统计

	// 错误信息
	ErrorMessage string `json:"error_message,omitempty"` // 错误消息
}

// NewRunTask 创建新运行
func NewRunTask(config RunConfig) (*RunTask, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	loginURL := config.Environment.LoginURL(config.Year)
	if err := ValidateURL(loginURL); err != nil {
		return nil, err
	}

	return &RunTask{
		ID:        generateID(),
		LoginURL:  loginURL,
		CreatedAt: time.Now(),
		Config:    config,
		Status:    RunStatusPending,
		Stats:     RunStats{},
	}, nil
}

// ToJSON 序列化为JSON
func (t *RunTask) ToJSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// FromJSON 从JSON反序列化
func (t *RunTask) FromJSON(data []byte) error {
	return json.Unmarshal(data, t)
}
