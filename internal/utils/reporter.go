package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
)

// Reporter 核对报告生成器
// 控制台输出人类可读的分标签页报告, 同时落盘完整JSON报告
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器
func NewReporter(outputDir string) *Reporter {
	if outputDir == "" {
		outputDir = "reports"
	}
	return &Reporter{
		outputDir: outputDir,
	}
}

// PrintReport 打印核对报告到控制台
// 标签页按清单键排序输出, 保证两次运行的报告顺序一致
func (r *Reporter) PrintReport(report *models.ValidationReport) {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("📊 下载核对报告")
	fmt.Println(strings.Repeat("=", 80))

	tabKeys := make([]string, 0, len(report.Tabs))
	for key := range report.Tabs {
		tabKeys = append(tabKeys, key)
	}
	sort.Strings(tabKeys)

	for _, tabKey := range tabKeys {
		r.printTabResult(tabKey, report.Tabs[tabKey])
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
}

// printTabResult 打印单个标签页的核对结果
func (r *Reporter) printTabResult(tabKey string, result *models.TabResult) {
	fmt.Printf("\n📁 %s\n", tabKey)
	fmt.Println(strings.Repeat("-", 60))

	fmt.Printf("   预期:     %3d 个文件\n", result.ExpectedCount)
	fmt.Printf("   实际下载: %3d 个文件\n", result.DownloadedCount)
	fmt.Printf("   ✅ 匹配:  %3d 个文件\n", result.MatchedCount)
	fmt.Printf("   ❌ 缺失:  %3d 个文件\n", len(result.MissingFiles))
	fmt.Printf("   ➕ 多余:  %3d 个文件\n", len(result.ExtraFiles))
	fmt.Printf("   ⚠️ 零字节: %3d 个文件 (不含代理格式占位文件)\n", result.ZeroSizeCount)

	if result.ExpectedCount > 0 {
		rate := float64(result.MatchedCount) / float64(result.ExpectedCount) * 100
		fmt.Printf("   📈 成功率: %.1f%%\n", rate)
	}

	r.printFileList("❌ 缺失文件", result.MissingFiles)
	r.printFileList("➕ 多余文件", result.ExtraFiles)
	r.printFileList("⚠️ 零字节文件", result.ZeroSizeFiles)

	if len(result.NearMatches) > 0 {
		fmt.Printf("\n   🔍 疑似改名 (%d):\n", len(result.NearMatches))
		for i, nm := range result.NearMatches {
			fmt.Printf("      %d. %s ≈ %s (%s, 相似度 %.2f)\n",
				i+1, nm.Missing, nm.Extra, nm.Format, nm.Similarity)
		}
	}

	if len(result.DownloadedDetails) > 0 {
		var totalSize int64
		for _, file := range result.DownloadedDetails {
			totalSize += file.Size
		}
		avgSize := totalSize / int64(len(result.DownloadedDetails))
		fmt.Printf("\n   💾 总大小:   %s\n", FormatFileSize(totalSize))
		fmt.Printf("   📏 平均大小: %s\n", FormatFileSize(avgSize))

		r.printFormatBreakdown(result.DownloadedDetails)
	}
}

// printFileList 打印带序号的文件列表, 空列表不输出
func (r *Reporter) printFileList(title string, files []string) {
	if len(files) == 0 {
		return
	}
	fmt.Printf("\n   %s (%d):\n", title, len(files))
	for i, file := range files {
		fmt.Printf("      %d. %s\n", i+1, file)
	}
}

// printFormatBreakdown 打印文件格式分布
// zip展示为"zip/json": 图表数据导出的zip包内是json, 沿用上游报告习惯
func (r *Reporter) printFormatBreakdown(details []models.ArtifactInfo) {
	counts := make(map[string]int)
	for _, file := range details {
		ext := file.Format
		if ext == "" {
			ext = "无扩展名"
		} else if ext == "zip" {
			ext = "zip/json"
		}
		counts[ext]++
	}
	if len(counts) == 0 {
		return
	}

	formats := make([]string, 0, len(counts))
	maxLen := 0
	for f := range counts {
		formats = append(formats, f)
		if len(f) > maxLen {
			maxLen = len(f)
		}
	}
	sort.Strings(formats)

	fmt.Printf("\n   📋 格式分布:\n")
	for _, f := range formats {
		fmt.Printf("      %-*s %3d 个文件\n", maxLen+1, f+":", counts[f])
	}
}

// SaveJSON 保存完整JSON报告
// 文件名带时间戳, 历次运行的报告不互相覆盖
func (r *Reporter) SaveJSON(report *models.ValidationReport) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	data, err := report.ToJSON()
	if err != nil {
		return "", fmt.Errorf("序列化报告失败: %w", err)
	}

	filename := fmt.Sprintf("validation_%s.json", time.Now().Format("20060102_150405"))
	savePath := filepath.Join(r.outputDir, filename)
	if err := os.WriteFile(savePath, data, 0644); err != nil {
		return "", fmt.Errorf("写入报告文件失败: %w", err)
	}

	Infof("✅ 报告已保存: %s", savePath)
	return savePath, nil
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
