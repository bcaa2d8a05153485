package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
)

// ExpectDownload 执行trigger并等待其触发的下一次下载完成
// rod把文件按下载GUID落到destDir, 完成后重命名为浏览器建议文件名。
// 等待受downloadTimeout约束: 页面点击没有触发下载时不会无限挂起
func (d *Driver) ExpectDownload(destDir string, trigger func() error) (*models.DownloadedFile, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("创建下载目录失败 [%s]: %w", destDir, err)
	}

	wait := d.browser.WaitDownload(destDir)

	if err := trigger(); err != nil {
		return nil, fmt.Errorf("触发下载失败: %w", err)
	}

	infoCh := make(chan *proto.PageDownloadWillBegin, 1)
	go func() { infoCh <- wait() }()

	timer := time.NewTimer(d.downloadTimeout)
	defer timer.Stop()

	select {
	case info := <-infoCh:
		if info == nil {
			return nil, fmt.Errorf("下载事件为空")
		}
		return d.settleDownload(destDir, info)
	case <-timer.C:
		return nil, fmt.Errorf("等待下载超时 (%v)", d.downloadTimeout)
	}
}

// settleDownload 把GUID临时文件重命名为建议文件名
func (d *Driver) settleDownload(destDir string, info *proto.PageDownloadWillBegin) (*models.DownloadedFile, error) {
	src := filepath.Join(destDir, info.GUID)
	dst := src
	if info.SuggestedFilename != "" {
		dst = filepath.Join(destDir, info.SuggestedFilename)
		if err := os.Rename(src, dst); err != nil {
			return nil, fmt.Errorf("保存下载文件失败 [%s]: %w", info.SuggestedFilename, err)
		}
	}

	var size int64
	if fi, err := os.Stat(dst); err == nil {
		size = fi.Size()
	}

	return &models.DownloadedFile{
		SuggestedName: info.SuggestedFilename,
		Path:          dst,
		Size:          size,
	}, nil
}
