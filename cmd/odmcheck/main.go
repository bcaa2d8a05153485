package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RecoveryAshes/OdmCheck/internal/core"
	"github.com/RecoveryAshes/OdmCheck/internal/models"
	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string
	noLogFile  bool

	// 运行参数
	envName         string
	year            int
	headless        bool
	waitTime        int
	downloadTimeout int
	outputDir       string
	manifestPath    string
	countriesCSV    string
	slicesPath      string

	// 行为开关
	strictProbe  bool
	skipClean    bool
	validateOnly bool
	keepOpen     bool
)

var rootCmd = &cobra.Command{
	Use:   "odmcheck",
	Short: "ODM仪表盘下载与核对工具",
	Long: `OdmCheck - ODM (Open Data Maturity) 仪表盘下载与核对工具 (Go版本)

自动遍历ODM仪表盘的5个标签页, 下载全部资源与图表导出,
并与预期文件清单做集合核对, 支持:
  • DEV/PROD双环境 (HTTP基本认证凭据来自环境变量)
  • 版本化的位置切片表 (上游页面结构变化时改配置不改代码)
  • 结构探针 (浏览器启动前检测页面漂移)
  • 图表4种格式导出 (PNG/JPEG/XLSX/JSON)
  • PDF代理格式占位文件
  • 仅核对模式 (不启动浏览器, 只比对磁盘现状)

凭据环境变量:
  DEV:  USERNAME_ODM_DEV / PASSWORD_ODM_DEV
  PROD: USERNAME_ODM_PROD / PASSWORD_ODM_PROD

示例:
  # 完整运行 (PROD环境)
  odmcheck -e PROD -y 2024 -m expected_files.json

  # 只核对已下载文件
  odmcheck --validate-only -m expected_files.json

  # 严格探针 + 保留浏览器检查
  odmcheck -e DEV --strict-probe --keep-open

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 加载配置
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 初始化日志系统
		logConfig := utils.LogConfig{
			Level:       config.Logging.Level,
			LogDir:      config.Logging.LogDir,
			FileEnabled: config.Logging.FileEnabled && !noLogFile,
			MaxSize:     config.Logging.Rotation.MaxSize,
			MaxBackups:  config.Logging.Rotation.MaxBackups,
			MaxAge:      config.Logging.Rotation.MaxAge,
			Compress:    config.Logging.Rotation.Compress,
		}

		// 命令行参数覆盖配置文件
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if verbose {
			logConfig.Level = "debug"
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Info("详细模式已启用")
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// 设置信号处理(Ctrl+C优雅退出)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		go func() {
			sig := <-sigChan
			utils.Warnf("\n收到中断信号: %v, 正在优雅关闭...", sig)
			os.Exit(0)
		}()

		appConfig, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		mergeFlags(cmd, appConfig)

		runConfig, err := buildRunConfig(appConfig)
		if err != nil {
			return err
		}

		runner, err := core.NewRunner(runConfig, appConfig)
		if err != nil {
			return err
		}

		report, err := runner.Run()
		if err != nil {
			return fmt.Errorf("核对运行失败: %w", err)
		}

		// 核对有缺口时以非零码退出, 方便CI判定
		if gaps := countGaps(report); gaps > 0 {
			utils.Warnf("⚠️ 核对发现 %d 个缺口 (缺失+多余+零字节)", gaps)
			os.Exit(2)
		}

		utils.Info("✨ 核对运行完成, 全部匹配!")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("OdmCheck %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
		fmt.Println("Go实现版本 - ODM仪表盘下载核对工具")
	},
}

// mergeFlags 命令行参数覆盖配置文件 (仅用户显式设置的参数)
func mergeFlags(cmd *cobra.Command, cfg *core.Config) {
	flags := cmd.Flags()
	if flags.Changed("env") {
		cfg.Run.Environment = envName
	}
	if flags.Changed("year") {
		cfg.Run.Year = year
	}
	if flags.Changed("headless") {
		cfg.Run.Headless = headless
	}
	if flags.Changed("wait") {
		cfg.Run.WaitTime = waitTime
	}
	if flags.Changed("download-timeout") {
		cfg.Run.DownloadTimeout = downloadTimeout
	}
	if flags.Changed("output") {
		cfg.Run.DownloadDir = outputDir
	}
	if flags.Changed("manifest") {
		cfg.Run.ManifestPath = manifestPath
	}
	if flags.Changed("countries-csv") {
		cfg.Run.CountriesCSV = countriesCSV
	}
	if flags.Changed("slices") {
		cfg.Slices.Path = slicesPath
	}
	if flags.Changed("strict-probe") {
		cfg.Run.StrictProbe = strictProbe
	}
}

// buildRunConfig 组装运行配置
func buildRunConfig(cfg *core.Config) (models.RunConfig, error) {
	env, err := models.ParseEnvironment(cfg.Run.Environment)
	if err != nil {
		return models.RunConfig{}, err
	}

	runConfig := models.RunConfig{
		Environment:        env,
		Year:               cfg.Run.Year,
		Headless:           cfg.Run.Headless,
		WaitTime:           cfg.Run.WaitTime,
		DownloadTimeout:    cfg.Run.DownloadTimeout,
		DownloadDir:        cfg.Run.DownloadDir,
		ManifestPath:       cfg.Run.ManifestPath,
		CountriesCSV:       cfg.Run.CountriesCSV,
		StrictProbe:        cfg.Run.StrictProbe,
		SkipClean:          skipClean,
		KeepOpen:           keepOpen,
		ValidateOnly:       validateOnly,
		NearMatchThreshold: cfg.Run.NearMatchThreshold,
	}

	if err := ValidateFlags(runConfig); err != nil {
		return models.RunConfig{}, err
	}
	return runConfig, nil
}

// countGaps 统计核对缺口总数
func countGaps(report *models.ValidationReport) int {
	gaps := 0
	for _, result := range report.Tabs {
		gaps += len(result.MissingFiles) + len(result.ExtraFiles) + result.ZeroSizeCount
	}
	return gaps
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&noLogFile, "no-log-file", false, "不写日志文件, 仅控制台输出")

	// 运行参数
	rootCmd.Flags().StringVarP(&envName, "env", "e", "PROD", "运行环境 (DEV|PROD)")
	rootCmd.Flags().IntVarP(&year, "year", "y", 2024, "ODM年度")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "无头浏览器模式")
	rootCmd.Flags().IntVarP(&waitTime, "wait", "w", 1000, "交互后缓冲等待(毫秒)")
	rootCmd.Flags().IntVar(&downloadTimeout, "download-timeout", 30, "单个下载等待超时(秒)")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "downloads", "下载根目录")
	rootCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "expected_files.json", "预期文件清单路径")
	rootCmd.Flags().StringVar(&countriesCSV, "countries-csv", "", "国家列表CSV路径 (覆盖内置列表)")
	rootCmd.Flags().StringVar(&slicesPath, "slices", "", "位置切片表路径 (默认 configs/slices.yaml)")

	// 行为开关
	rootCmd.Flags().BoolVar(&strictProbe, "strict-probe", false, "结构探针不一致时中止运行")
	rootCmd.Flags().BoolVar(&skipClean, "skip-clean", false, "跳过启动清理")
	rootCmd.Flags().BoolVar(&validateOnly, "validate-only", false, "仅核对已下载文件, 不启动浏览器")
	rootCmd.Flags().BoolVar(&keepOpen, "keep-open", false, "运行结束后保持浏览器打开")

	// 添加子命令
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
