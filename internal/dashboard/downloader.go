package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

// chartScrollDelta 处理完一个图表后的下滚距离, 露出下一个图表
const chartScrollDelta = 1500

// Downloader 下载协调器
// 资源下载与图表导出都在这里落地, 单项失败只影响自身
type Downloader struct {
	page     models.PageDriver
	fallback *Fallback // 可为nil (禁用直连兜底)
	waitTime time.Duration
}

// NewDownloader 创建下载协调器
func NewDownloader(page models.PageDriver, fallback *Fallback, waitMillis int) *Downloader {
	return &Downloader{
		page:     page,
		fallback: fallback,
		waitTime: time.Duration(waitMillis) * time.Millisecond,
	}
}

// DownloadResources 下载一批资源链接到tabDir
// 代理格式资源生成零字节占位文件, 其余走浏览器交互下载;
// 页面上找不到锚点或下载失败时尝试直连兜底
func (d *Downloader) DownloadResources(tabDir string, links []models.ResourceLink) models.RunStats {
	stats := models.RunStats{ResourcesPlanned: len(links)}
	if len(links) == 0 {
		return stats
	}

	if err := os.MkdirAll(tabDir, 0755); err != nil {
		utils.Errorf("❌ 创建下载目录失败 [%s]: %v", tabDir, err)
		stats.Failed += len(links)
		return stats
	}

	utils.Infof("📥 本批次待下载资源: %d", len(links))
	for i, link := range links {
		utils.Infof("  [%d/%d] 处理资源: %s", i+1, len(links), link.FileName())

		if link.IsProxy() {
			if err := d.writePlaceholder(tabDir, link); err != nil {
				utils.Errorf("  ❌ 生成占位文件失败 [%s]: %v", link.FileName(), err)
				stats.Failed++
				continue
			}
			stats.Placeholders++
			utils.Infof("  ✅ 已生成占位文件: %s", link.PlaceholderName())
			continue
		}

		d.downloadInteractive(tabDir, link, &stats)
	}
	return stats
}

// writePlaceholder 代理格式的零字节占位文件
// 占位文件只表示资源存在性, 内容始终为空; 已存在时原样截断
func (d *Downloader) writePlaceholder(tabDir string, link models.ResourceLink) error {
	name := link.PlaceholderName()
	if name == "" {
		return fmt.Errorf("无法确定占位文件名: %s", link.Href)
	}
	return os.WriteFile(filepath.Join(tabDir, name), nil, 0644)
}

// downloadInteractive 通过浏览器点击锚点下载单个资源
// 重复项去重后页面上仍能按精确href找到首个锚点; 找不到或下载失败走直连兜底
func (d *Downloader) downloadInteractive(tabDir string, link models.ResourceLink, stats *models.RunStats) {
	anchor, found, err := d.page.First(fmt.Sprintf("a[href='%s']", link.Href))
	if err != nil {
		utils.Warnf("  ⚠️ 查询资源锚点失败 [%s]: %v", link.Href, err)
	}

	if err == nil && found {
		file, dlErr := d.page.ExpectDownload(tabDir, anchor.Click)
		if dlErr == nil {
			stats.ResourcesFetched++
			stats.TotalSize += file.Size
			utils.Infof("  ✅ 下载成功: %s (%s)", file.SuggestedName, utils.FormatFileSize(file.Size))
			return
		}
		utils.Warnf("  ⚠️ 交互下载失败 [%s]: %v", link.FileName(), dlErr)
	} else if err == nil {
		utils.Warnf("  ⚠️ 页面上找不到资源锚点: %s", link.FileName())
	}

	if d.fallback == nil {
		stats.Failed++
		return
	}

	file, fbErr := d.fallback.FetchTo(tabDir, link)
	if fbErr != nil {
		utils.Errorf("  ❌ 直连兜底失败 [%s]: %v", link.FileName(), fbErr)
		stats.Failed++
		return
	}
	stats.FallbackFetched++
	stats.TotalSize += file.Size
	utils.Infof("  ✅ 直连兜底下载成功: %s (%s)", file.SuggestedName, utils.FormatFileSize(file.Size))
}

// DownloadCharts 导出一批图表到tabDir
// 每个图表按固定顺序导出4个选项 (PNG/JPEG/XLSX/JSON), 单个选项失败
// 不影响后续选项。每个选项处理完后点击页面空白处关闭菜单
func (d *Downloader) DownloadCharts(tabDir string, charts []ChartTarget) models.RunStats {
	stats := models.RunStats{}
	if len(charts) == 0 {
		return stats
	}

	if err := os.MkdirAll(tabDir, 0755); err != nil {
		utils.Errorf("❌ 创建下载目录失败 [%s]: %v", tabDir, err)
		stats.Failed += len(charts) * len(models.ChartExportOptions)
		return stats
	}

	utils.Infof("📊 本批次待导出图表: %d", len(charts))
	for i, chart := range charts {
		stats.ChartsProcessed++
		utils.Infof("  [%d/%d] 处理图表 (菜单 %s)", i+1, len(charts), chart.Menu.MenuID)

		if err := chart.Handle.ScrollIntoView(); err != nil {
			utils.Warnf("  ⚠️ 图表滚动到可见失败 [%s]: %v", chart.Menu.MenuID, err)
		}

		for _, option := range models.ChartExportOptions {
			d.exportChartOption(tabDir, chart, option, &stats)

			// 无论成败都点击空白处, 确保菜单收起不遮挡下一个选项
			if err := d.page.ClickAt(0, 0); err != nil {
				utils.Debugf("关闭菜单点击失败: %v", err)
			}
			d.pause()
		}

		if err := d.page.Scroll(chartScrollDelta); err != nil {
			utils.Debugf("页面下滚失败: %v", err)
		}
	}
	return stats
}

// exportChartOption 导出单个图表选项
// 每个选项前重新打开菜单: 上一个选项的点击会让菜单收起
func (d *Downloader) exportChartOption(tabDir string, chart ChartTarget, option string, stats *models.RunStats) {
	if err := chart.Handle.Click(); err != nil {
		utils.Warnf("  ⚠️ 打开导出菜单失败 [%s]: %v", chart.Menu.MenuID, err)
		stats.Failed++
		return
	}
	d.pause()

	listbox, found, err := d.page.First(fmt.Sprintf("ul[id='%s']", chart.Menu.ListboxID()))
	if err != nil || !found {
		utils.Warnf("  ⚠️ 找不到选项列表 [%s]", chart.Menu.ListboxID())
		stats.Failed++
		return
	}

	item, found, err := listbox.FirstWithText("li", option)
	if err != nil || !found {
		utils.Warnf("  ⚠️ 选项列表中没有 '%s' [%s]", option, chart.Menu.ListboxID())
		stats.Failed++
		return
	}

	file, err := d.page.ExpectDownload(tabDir, item.Click)
	if err != nil {
		utils.Warnf("  ⚠️ 导出失败 '%s' [%s]: %v", option, chart.Menu.MenuID, err)
		stats.Failed++
		return
	}

	stats.ChartExports++
	stats.TotalSize += file.Size
	utils.Infof("  ✅ 导出成功: %s (%s)", file.SuggestedName, utils.FormatFileSize(file.Size))
}

func (d *Downloader) pause() {
	if d.waitTime > 0 {
		time.Sleep(d.waitTime)
	}
}
