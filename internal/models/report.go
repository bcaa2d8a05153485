package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ArtifactInfo 磁盘上的一个下载产物
type ArtifactInfo struct {
	Name   string `json:"name"`   // 文件名
	Format string `json:"format"` // 小写扩展名 (不含点)
	Size   int64  `json:"size"`   // 文件大小(字节)
}

// Key 归一化比对键
func (a ArtifactInfo) Key() FileKey {
	return FileKey{Name: a.Name, Format: strings.ToLower(a.Format)}
}

// NearMatch 疑似改名提示
// 缺失项与多余项同格式且名称高度相似时给出, 仅作排查线索, 不影响计数
type NearMatch struct {
	Missing    string  `json:"missing"`    // 清单中缺失的文件
	Extra      string  `json:"extra"`      // 目录中多余的文件
	Format     string  `json:"format"`     // 共同格式
	Similarity float64 `json:"similarity"` // 名称相似度 (0-1)
}

// TabResult 单个标签页的核对结果
// 一次运行计算一次, 之后只读
type TabResult struct {
	// 计数 (集合基数: 重复的(name, format)收拢后计数)
	ExpectedCount   int `json:"expected_count"`   // 预期文件数
	DownloadedCount int `json:"downloaded_count"` // 实际下载数
	MatchedCount    int `json:"matched_count"`    // 匹配数

	// 分类明细 ("name (fmt)" 形式, 已排序保证确定性)
	MissingFiles []string `json:"missing_files"` // 预期有而未下载
	ExtraFiles   []string `json:"extra_files"`   // 下载了但清单没有
	MatchedFiles []string `json:"matched_files"` // 两边都有

	// 零字节检测 (代理格式除外, 零字节是其正确状态)
	ZeroSizeCount int      `json:"zero_size_count"`
	ZeroSizeFiles []string `json:"zero_size_files"`

	// 物理文件明细 (不做集合收拢, 保留真实文件数)
	DownloadedDetails []ArtifactInfo `json:"downloaded_details"`

	// 疑似改名提示
	NearMatches []NearMatch `json:"near_matches,omitempty"`
}

// RunStats 运行统计
type RunStats struct {
	TabsVisited      int     `json:"tabs_visited"`      // 已处理标签页数
	ChartsProcessed  int     `json:"charts_processed"`  // 已处理图表数
	ChartExports     int     `json:"chart_exports"`     // 图表导出成功数
	ResourcesPlanned int     `json:"resources_planned"` // 计划下载资源数 (去重后)
	ResourcesFetched int     `json:"resources_fetched"` // 交互下载成功数
	Placeholders     int     `json:"placeholders"`      // 代理格式占位文件数
	FallbackFetched  int     `json:"fallback_fetched"`  // 直连兜底下载成功数
	Failed           int     `json:"failed"`            // 失败数 (资源+图表选项)
	TotalSize        int64   `json:"total_size"`        // 下载总大小(字节)
	Duration         float64 `json:"duration"`          // 总耗时(秒)
}

// Merge 合并另一份统计 (逐标签页累加)
func (s *RunStats) Merge(other RunStats) {
	s.TabsVisited += other.TabsVisited
	s.ChartsProcessed += other.ChartsProcessed
	s.ChartExports += other.ChartExports
	s.ResourcesPlanned += other.ResourcesPlanned
	s.ResourcesFetched += other.ResourcesFetched
	s.Placeholders += other.Placeholders
	s.FallbackFetched += other.FallbackFetched
	s.Failed += other.Failed
	s.TotalSize += other.TotalSize
}

// ValidationReport 一次运行的总报告
type ValidationReport struct {
	// 运行信息
	RunID       string      `json:"run_id"`      // 运行唯一ID (UUID)
	Environment Environment `json:"environment"` // DEV或PROD
	Year        int         `json:"year"`        // 年度
	LoginURL    string      `json:"login_url"`   // 登录入口

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	// 统计信息
	Stats RunStats `json:"stats"`

	// 各标签页核对结果 (键为清单标签页名称)
	Tabs map[string]*TabResult `json:"tabs"`

	// 配置快照
	Config RunConfig `json:"config"`
}

// ToJSON 序列化为JSON
func (r *ValidationReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *ValidationReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
