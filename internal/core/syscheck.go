package core

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

const (
	// minAvailableMemory 浏览器启动前的可用内存下限 (1GB)
	// 低于此值Chromium容易启动崩溃或渲染超时
	minAvailableMemory = 1 * 1024 * 1024 * 1024

	// cpuLoadWarnThreshold CPU负载告警阈值 (%)
	cpuLoadWarnThreshold = 90.0
)

// RunPreflight 浏览器启动前的一次性系统资源预检
// 只告警不中止: 资源紧张会让运行变慢变脆, 但不必然失败
func RunPreflight() {
	vmStat, err := mem.VirtualMemory()
	if err != nil {
		utils.Warnf("⚠️ 获取系统内存信息失败: %v", err)
	} else {
		utils.Infof("💻 系统内存: 总计 %s, 可用 %s (使用率 %.1f%%)",
			utils.FormatFileSize(int64(vmStat.Total)),
			utils.FormatFileSize(int64(vmStat.Available)),
			vmStat.UsedPercent)
		if vmStat.Available < minAvailableMemory {
			utils.Warnf("⚠️ 可用内存不足1GB, 浏览器可能不稳定")
		}
	}

	percentages, err := cpu.Percent(500*time.Millisecond, false)
	if err != nil || len(percentages) == 0 {
		utils.Warnf("⚠️ 获取CPU负载失败: %v", err)
		return
	}
	utils.Infof("💻 CPU负载: %.1f%%", percentages[0])
	if percentages[0] > cpuLoadWarnThreshold {
		utils.Warnf("⚠️ CPU负载过高, 页面交互可能超时")
	}
}
