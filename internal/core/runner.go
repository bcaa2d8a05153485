package core

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/OdmCheck/internal/browser"
	"github.com/RecoveryAshes/OdmCheck/internal/config"
	"github.com/RecoveryAshes/OdmCheck/internal/dashboard"
	"github.com/RecoveryAshes/OdmCheck/internal/models"
	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

// Runner 一次核对运行的总协调器
// 执行顺序: 凭据/清单/切片表/国家列表 (致命前置) → 启动清理 →
// 结构探针 → 浏览器会话 → 标签页遍历下载 → 核对 → 报告
type Runner struct {
	task   *models.RunTask
	appCfg *Config
}

// NewRunner 创建协调器
func NewRunner(runCfg models.RunConfig, appCfg *Config) (*Runner, error) {
	task, err := models.NewRunTask(runCfg)
	if err != nil {
		return nil, fmt.Errorf("创建运行任务失败: %w", err)
	}
	return &Runner{
		task:   task,
		appCfg: appCfg,
	}, nil
}

// Task 当前运行任务
func (r *Runner) Task() *models.RunTask {
	return r.task
}

// Run 执行完整核对运行
// 致命前置失败立即返回错误; 浏览器阶段的单项失败只计入统计。
// ValidateOnly模式跳过浏览器, 只对磁盘现状做核对
func (r *Runner) Run() (*models.ValidationReport, error) {
	cfg := r.task.Config
	startTime := time.Now()
	r.task.Status = models.RunStatusRunning
	r.task.StartedAt = &startTime

	utils.Infof("🚀 开始ODM核对运行 [%s]", r.task.ID)
	utils.Infof("🌍 环境: %s | 年度: %d | 模式: %s", cfg.Environment, cfg.Year, r.runMode())

	report, err := r.run(startTime)
	if err != nil {
		r.task.Status = models.RunStatusFailed
		r.task.ErrorMessage = err.Error()
		return nil, err
	}

	completedAt := time.Now()
	r.task.CompletedAt = &completedAt
	r.task.Status = models.RunStatusCompleted
	return report, nil
}

func (r *Runner) run(startTime time.Time) (*models.ValidationReport, error) {
	cfg := r.task.Config

	// 1. 致命前置: 全部加载校验通过才允许碰浏览器
	var creds browser.Credentials
	if !cfg.ValidateOnly {
		var err error
		creds, err = LoadCredentials(cfg.Environment)
		if err != nil {
			return nil, err
		}
	}

	manifest, err := models.LoadManifest(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}
	utils.Infof("📋 预期清单已加载: %s (%d 个标签页)", cfg.ManifestPath, len(manifest))

	for _, warning := range utils.NewManifestValidator().Validate(manifest, cfg.Year) {
		utils.Warnf("⚠️ 清单: %s", warning)
	}

	table, err := config.NewSliceTableLoader(r.appCfg.Slices.Path).LoadTable()
	if err != nil {
		return nil, err
	}
	utils.Infof("📐 切片表已加载: 版本 %s", table.Version)

	countries, err := r.loadCountries()
	if err != nil {
		return nil, err
	}

	// 2. 浏览器阶段
	if !cfg.ValidateOnly {
		if !cfg.SkipClean {
			r.cleanDownloadDirs()
		}

		if err := r.runProbe(creds, table); err != nil {
			return nil, err
		}

		RunPreflight()

		if err := r.runBrowserPhase(creds, table, countries); err != nil {
			return nil, err
		}
	}

	// 3. 核对与报告
	reconciler := NewReconciler(manifest, cfg.DownloadDir, cfg.Year, cfg.NearMatchThreshold)
	results := reconciler.Reconcile()

	endTime := time.Now()
	r.task.Stats.Duration = endTime.Sub(startTime).Seconds()

	report := &models.ValidationReport{
		RunID:       r.task.ID,
		Environment: cfg.Environment,
		Year:        cfg.Year,
		LoginURL:    r.task.LoginURL,
		StartTime:   startTime,
		EndTime:     endTime,
		Duration:    r.task.Stats.Duration,
		Stats:       r.task.Stats,
		Tabs:        results,
		Config:      cfg,
	}

	reporter := utils.NewReporter(r.appCfg.Report.Dir)
	reporter.PrintReport(report)
	if _, err := reporter.SaveJSON(report); err != nil {
		utils.Warnf("⚠️ 保存JSON报告失败: %v", err)
	}

	r.logFinalStats()
	return report, nil
}

// runBrowserPhase 浏览器会话与标签页遍历
func (r *Runner) runBrowserPhase(creds browser.Credentials, table *models.SliceTable,
	countries []models.Country) error {
	cfg := r.task.Config

	session, err := StartSession(cfg, creds, r.task.LoginURL)
	if err != nil {
		return err
	}
	defer session.Close()

	fallback := dashboard.NewFallback(
		time.Duration(cfg.DownloadTimeout)*time.Second, creds.Username, creds.Password)

	navigator := dashboard.NewNavigator(session.Page(), table, countries, cfg, fallback)
	stats, outcomes := navigator.VisitAllTabs(cfg.DownloadDir)
	r.task.Stats.Merge(stats)

	failedTabs := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failedTabs++
		}
	}
	if failedTabs > 0 {
		utils.Warnf("⚠️ %d 个标签页整体失败, 其预期文件将在核对中记为缺失", failedTabs)
	}

	if cfg.KeepOpen {
		utils.Info("🔍 浏览器保持打开, 按回车关闭...")
		utils.WaitForEnter()
	}
	return nil
}

// runProbe 结构探针
// 严格模式下候选数不符中止运行; 宽松模式记录警告后继续。
// 探针网络失败本身按宽松处理: 页面端交互仍可能成功
func (r *Runner) runProbe(creds browser.Credentials, table *models.SliceTable) error {
	cfg := r.task.Config

	probe := dashboard.NewProbe(r.task.LoginURL, creds.Username, creds.Password,
		time.Duration(cfg.DownloadTimeout)*time.Second)
	result, err := probe.Run()
	if err != nil {
		if cfg.StrictProbe {
			return fmt.Errorf("结构探针失败 (严格模式): %w", err)
		}
		utils.Warnf("⚠️ 结构探针失败, 继续运行: %v", err)
		return nil
	}

	if err := table.CheckProbeCount(cfg.Environment, result.AnchorCount); err != nil {
		if cfg.StrictProbe {
			return fmt.Errorf("结构探针不通过 (严格模式): %w", err)
		}
		utils.Warnf("⚠️ %v", err)
	}
	return nil
}

// cleanDownloadDirs 启动清理: 清空5个标签页目录中的上次运行残留
// 残留文件会污染"多余文件"核对结果
func (r *Runner) cleanDownloadDirs() {
	cfg := r.task.Config
	utils.Infof("🧹 启动清理: %s", cfg.DownloadDir)
	for _, tab := range models.AllTabs {
		dir := filepath.Join(cfg.DownloadDir, tab.DirName(cfg.Year))
		if _, err := utils.CleanDir(dir); err != nil {
			utils.Warnf("⚠️ 清理失败 [%s]: %v", dir, err)
		}
	}
}

// loadCountries 加载国家列表 (CSV覆盖或内置默认)
func (r *Runner) loadCountries() ([]models.Country, error) {
	cfg := r.task.Config
	if cfg.CountriesCSV != "" {
		return utils.LoadCountriesCSV(cfg.CountriesCSV)
	}
	if err := models.ValidateCountries(models.DefaultCountries); err != nil {
		return nil, fmt.Errorf("内置国家列表校验失败: %w", err)
	}
	utils.Infof("🌍 使用内置国家列表 (%d 个国家)", len(models.DefaultCountries))
	return models.DefaultCountries, nil
}

// logFinalStats 最终统计
func (r *Runner) logFinalStats() {
	stats := r.task.Stats
	minutes := int(stats.Duration) / 60
	seconds := int(stats.Duration) % 60

	utils.Infof("============================================")
	utils.Infof("📊 运行统计 [%s]", r.task.ID)
	utils.Infof("   标签页:     %d/%d", stats.TabsVisited, len(models.AllTabs))
	utils.Infof("   图表:       处理 %d, 导出成功 %d", stats.ChartsProcessed, stats.ChartExports)
	utils.Infof("   资源:       计划 %d, 交互下载 %d, 占位 %d, 兜底 %d",
		stats.ResourcesPlanned, stats.ResourcesFetched, stats.Placeholders, stats.FallbackFetched)
	utils.Infof("   失败:       %d", stats.Failed)
	utils.Infof("   下载总量:   %s", utils.FormatFileSize(stats.TotalSize))
	utils.Infof("   总耗时:     %d分%d秒", minutes, seconds)
	utils.Infof("============================================")
}

func (r *Runner) runMode() string {
	if r.task.Config.ValidateOnly {
		return "仅核对"
	}
	return "下载+核对"
}
