package dashboard

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

// Fallback 直连兜底下载器
// 浏览器交互下载失败 (页面上找不到锚点或等待超时) 时,
// 绕过浏览器直接对Href发起带基本认证的GET请求
type Fallback struct {
	client   *http.Client
	username string
	password string
}

// NewFallback 创建直连兜底下载器
// 预生产环境使用自签名证书, 与浏览器侧保持一致跳过证书验证
func NewFallback(timeout time.Duration, username, password string) *Fallback {
	return &Fallback{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		username: username,
		password: password,
	}
}

// FetchTo 直连下载一个资源到destDir
// 文件名沿用占位命名规则: 优先download属性建议名, 缺失时取URL末段
func (f *Fallback) FetchTo(destDir string, link models.ResourceLink) (*models.DownloadedFile, error) {
	name := link.PlaceholderName()
	if name == "" {
		return nil, fmt.Errorf("无法确定保存文件名: %s", link.Href)
	}

	req, err := http.NewRequest(http.MethodGet, link.Href, nil)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	req.SetBasicAuth(f.username, f.password)
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("直连请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("直连请求返回非200状态: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	decoded, err := DecodeBody(resp.Header.Get("Content-Encoding"), body)
	if err != nil {
		return nil, fmt.Errorf("解压响应体失败: %w", err)
	}

	savePath := filepath.Join(destDir, name)
	if err := os.WriteFile(savePath, decoded, 0644); err != nil {
		return nil, fmt.Errorf("保存文件失败 [%s]: %w", savePath, err)
	}

	return &models.DownloadedFile{
		SuggestedName: name,
		Path:          savePath,
		Size:          int64(len(decoded)),
	}, nil
}

// DecodeBody 按Content-Encoding解压响应体
// 手动设置Accept-Encoding后net/http不再自动解压, 需要自行处理。
// 未知编码按原样返回并记录警告
func DecodeBody(contentEncoding string, body []byte) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "":
		return body, nil
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("创建gzip解压器失败: %w", err)
		}
		defer reader.Close()
		return io.ReadAll(reader)
	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()
		return io.ReadAll(reader)
	case "br":
		return io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
	default:
		utils.Warnf("⚠️ 未知的Content-Encoding: %s, 按原样保存", contentEncoding)
		return body, nil
	}
}
