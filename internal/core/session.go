package core

import (
	"fmt"
	"time"

	"github.com/RecoveryAshes/OdmCheck/internal/browser"
	"github.com/RecoveryAshes/OdmCheck/internal/models"
	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

// overlayWait 弹层出现的最长等待时间
// 新闻订阅弹窗与Cookie横幅都是尽力关闭: 没出现不算错误
const overlayWait = 3 * time.Second

// Session 一次浏览器会话
// 负责启动、登录入口导航与弹层关闭, 之后把页面交给导航器
type Session struct {
	driver *browser.Driver
	config models.RunConfig
}

// StartSession 启动浏览器并进入仪表盘
// 基本认证由浏览器层的认证应答处理, 导航成功即视为登录完成
func StartSession(cfg models.RunConfig, creds browser.Credentials, loginURL string) (*Session, error) {
	driver, err := browser.Launch(cfg, creds)
	if err != nil {
		return nil, err
	}

	redactor := utils.NewCredentialRedactor()
	utils.Infof("🔗 正在进入仪表盘: %s", redactor.RedactURL(loginURL))

	if err := driver.Navigate(loginURL); err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("导航到登录入口失败: %w", err)
	}
	if err := driver.WaitLoad(); err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("等待页面加载失败: %w", err)
	}
	if cfg.WaitTime > 0 {
		time.Sleep(time.Duration(cfg.WaitTime) * time.Millisecond)
	}

	if title, err := driver.Title(); err == nil {
		utils.Infof("📄 页面标题: %s", title)
	}

	session := &Session{driver: driver, config: cfg}
	session.dismissOverlays()
	return session, nil
}

// Page 会话页面
func (s *Session) Page() models.PageDriver {
	return s.driver
}

// Close 关闭浏览器
func (s *Session) Close() {
	if err := s.driver.Close(); err != nil {
		utils.Warnf("⚠️ 关闭浏览器失败: %v", err)
	}
}

// dismissOverlays 尽力关闭遮挡内容的弹层
// 新闻订阅弹窗与Cookie横幅会挡住标签页和下载锚点的点击
func (s *Session) dismissOverlays() {
	deadline := time.Now().Add(overlayWait)
	dismissed := false
	for time.Now().Before(deadline) {
		if el, found, err := s.driver.First("button.close"); err == nil && found {
			if err := el.Click(); err == nil {
				utils.Infof("✅ 新闻订阅弹窗已关闭")
				dismissed = true
			}
			break
		}
		time.Sleep(200 * time.Millisecond)
	}
	if !dismissed {
		utils.Infof("ℹ️ 未出现新闻订阅弹窗")
	}

	deadline = time.Now().Add(overlayWait)
	dismissed = false
	for time.Now().Before(deadline) {
		if el, found, err := s.driver.FirstWithText("button", "Accept only essential cookies"); err == nil && found {
			if err := el.Click(); err == nil {
				utils.Infof("✅ 已仅接受必要Cookie")
				dismissed = true
			}
			break
		}
		time.Sleep(200 * time.Millisecond)
	}
	if !dismissed {
		utils.Infof("ℹ️ 未出现Cookie横幅")
	}
}
