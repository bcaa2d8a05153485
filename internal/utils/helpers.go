package utils

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
)

// CleanDir 删除目录下的普通文件 (非递归)
// 子目录原样保留; 目录不存在只报告不创建; 单个文件删除失败不中止。
// 返回删除的文件数
func CleanDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			Infof("ℹ️ 目录不存在, 跳过清理: %s", dir)
			return 0, nil
		}
		return 0, fmt.Errorf("读取目录失败 [%s]: %w", dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			Warnf("⚠️ 删除文件失败 [%s]: %v", path, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		Infof("🧹 已清理 %d 个文件: %s", removed, dir)
	}
	return removed, nil
}

// LoadCountriesCSV 从CSV文件加载国家列表
// 首行必须是表头 country_code,country_name, 之后每行一个国家。
// 加载结果经过唯一性校验, 非法即失败 (国家列表错误会导致资源错配)
func LoadCountriesCSV(path string) ([]models.Country, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开国家CSV失败: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取CSV表头失败: %w", err)
	}
	if len(header) < 2 ||
		strings.TrimSpace(header[0]) != "country_code" ||
		strings.TrimSpace(header[1]) != "country_name" {
		return nil, fmt.Errorf("CSV表头必须是 country_code,country_name, 得到 %v", header)
	}

	var countries []models.Country
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取CSV记录失败: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		countries = append(countries, models.Country{
			Code: strings.TrimSpace(record[0]),
			Name: strings.TrimSpace(record[1]),
		})
	}

	if err := models.ValidateCountries(countries); err != nil {
		return nil, fmt.Errorf("国家列表校验失败: %w", err)
	}

	Infof("🌍 从CSV加载了 %d 个国家: %s", len(countries), path)
	return countries, nil
}

// FormatFileSize 字节数转人类可读大小 (1024进制, 一位小数)
func FormatFileSize(sizeBytes int64) string {
	if sizeBytes == 0 {
		return "0 B"
	}

	size := float64(sizeBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", size)
}

// WaitForEnter 阻塞等待用户按回车 (keep-open模式下手动检查页面用)
func WaitForEnter() {
	reader := bufio.NewReader(os.Stdin)
	_, _ = reader.ReadString('\n')
}
