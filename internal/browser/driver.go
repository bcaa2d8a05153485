// Package browser 是models.PageDriver的rod实现
// 核心逻辑只依赖能力接口, 浏览器细节 (启动参数、认证应答、下载事件) 全部收在这里
package browser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/RecoveryAshes/OdmCheck/internal/models"
	"github.com/RecoveryAshes/OdmCheck/internal/utils"
)

const (
	// maxLaunchRetries 浏览器启动最大尝试次数
	maxLaunchRetries = 3

	// launchRetryDelay 启动重试间隔
	launchRetryDelay = 2 * time.Second
)

// Credentials HTTP基本认证凭据
type Credentials struct {
	Username string
	Password string
}

// Driver rod浏览器驱动, 实现models.PageDriver
type Driver struct {
	browser         *rod.Browser
	page            *rod.Page
	downloadTimeout time.Duration
}

// Launch 启动浏览器并创建页面
// 启动失败自动重试: Chromium偶发启动崩溃, 重启通常即恢复
func Launch(cfg models.RunConfig, creds Credentials) (*Driver, error) {
	var lastErr error
	for attempt := 0; attempt < maxLaunchRetries; attempt++ {
		if attempt > 0 {
			utils.Warnf("⚠️ 浏览器启动失败, %v后重试 (%d/%d): %v",
				launchRetryDelay, attempt+1, maxLaunchRetries, lastErr)
			time.Sleep(launchRetryDelay)
		}

		driver, err := launchOnce(cfg, creds)
		if err == nil {
			utils.Infof("🚀 浏览器已启动 (headless=%v)", cfg.Headless)
			return driver, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("启动浏览器失败, 已达最大重试次数: %w", lastErr)
}

// launchOnce 单次启动尝试
func launchOnce(cfg models.RunConfig, creds Credentials) (*Driver, error) {
	l := launcher.New().Headless(cfg.Headless)

	// 预生产环境使用自签名证书, 跳过TLS证书验证
	l = l.Set("ignore-certificate-errors")
	l = l.Set("start-maximized")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("启动浏览器进程失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}

	// HTTP基本认证应答: 挂在后台等待认证质询, 首次通过后浏览器会缓存凭据
	wait := browser.HandleAuth(creds.Username, creds.Password)
	go func() { _ = wait() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.MustClose()
		return nil, fmt.Errorf("创建页面失败: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}).Call(page); err != nil {
		utils.Warnf("⚠️ 设置视口失败: %v", err)
	}

	return &Driver{
		browser:         browser,
		page:            page,
		downloadTimeout: time.Duration(cfg.DownloadTimeout) * time.Second,
	}, nil
}

// Navigate 跳转到指定URL
func (d *Driver) Navigate(url string) error {
	return d.page.Navigate(url)
}

// WaitLoad 等待页面加载完成
func (d *Driver) WaitLoad() error {
	return d.page.WaitLoad()
}

// Title 当前页面标题
func (d *Driver) Title() (string, error) {
	info, err := d.page.Info()
	if err != nil {
		return "", fmt.Errorf("读取页面信息失败: %w", err)
	}
	return info.Title, nil
}

// Elements 查询全部匹配元素
// "//"开头的选择器按XPath处理, 其余按CSS处理
func (d *Driver) Elements(selector string) ([]models.Element, error) {
	var els rod.Elements
	var err error
	if strings.HasPrefix(selector, "//") {
		els, err = d.page.ElementsX(selector)
	} else {
		els, err = d.page.Elements(selector)
	}
	if err != nil {
		return nil, err
	}

	out := make([]models.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el})
	}
	return out, nil
}

// First 查询第一个匹配元素, 无匹配不算错误
func (d *Driver) First(selector string) (models.Element, bool, error) {
	found, el, err := d.page.Has(selector)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &element{el: el}, true, nil
}

// FirstWithText 查询第一个可见文本包含text的匹配元素
func (d *Driver) FirstWithText(selector, text string) (models.Element, bool, error) {
	found, el, err := d.page.HasR(selector, regexp.QuoteMeta(text))
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &element{el: el}, true, nil
}

// ClickAt 点击页面坐标
func (d *Driver) ClickAt(x, y float64) error {
	if err := d.page.Mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
		return err
	}
	return d.page.Mouse.Click(proto.InputMouseButtonLeft, 1)
}

// Scroll 纵向滚动页面
func (d *Driver) Scroll(deltaY float64) error {
	return d.page.Mouse.Scroll(0, deltaY, 1)
}

// Close 关闭浏览器
func (d *Driver) Close() error {
	if d.browser == nil {
		return nil
	}
	if err := d.browser.Close(); err != nil {
		return fmt.Errorf("关闭浏览器失败: %w", err)
	}
	utils.Debugf("浏览器已关闭")
	return nil
}

// element rod元素包装, 实现models.Element
type element struct {
	el *rod.Element
}

// Attribute 读取属性值, 第二个返回值为false表示属性不存在
func (e *element) Attribute(name string) (string, bool, error) {
	value, err := e.el.Attribute(name)
	if err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

// Text 元素可见文本
func (e *element) Text() (string, error) {
	return e.el.Text()
}

// Click 左键单击
func (e *element) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

// ScrollIntoView 滚动到元素可见
func (e *element) ScrollIntoView() error {
	return e.el.ScrollIntoView()
}

// First 在元素子树内查询第一个匹配元素
func (e *element) First(selector string) (models.Element, bool, error) {
	found, el, err := e.el.Has(selector)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &element{el: el}, true, nil
}

// FirstWithText 在元素子树内查询第一个文本包含text的匹配元素
func (e *element) FirstWithText(selector, text string) (models.Element, bool, error) {
	found, el, err := e.el.HasR(selector, regexp.QuoteMeta(text))
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &element{el: el}, true, nil
}
