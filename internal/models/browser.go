package models

// DownloadedFile 一次浏览器下载的落盘结果
type DownloadedFile struct {
	// SuggestedName 浏览器给出的建议文件名
	SuggestedName string

	// Path 保存后的完整路径
	Path string

	// Size 文件大小(字节)
	Size int64
}

// PageDriver 浏览器页面能力接口
// 核心逻辑只通过此接口与浏览器交互, rod实现位于internal/browser。
// 约定: 同一标签页访问期间, 相同选择器的重复查询返回顺序稳定的列表
type PageDriver interface {
	// Navigate 跳转到指定URL
	Navigate(url string) error

	// WaitLoad 等待页面加载完成
	WaitLoad() error

	// Title 当前页面标题
	Title() (string, error)

	// Elements 查询全部匹配元素 (有序, 可为空列表)
	Elements(selector string) ([]Element, error)

	// First 查询第一个匹配元素
	// 第二个返回值为false表示没有匹配 (不算错误)
	First(selector string) (Element, bool, error)

	// FirstWithText 查询第一个可见文本包含text的匹配元素
	FirstWithText(selector, text string) (Element, bool, error)

	// ExpectDownload 执行trigger并等待其触发的下一次下载完成,
	// 将文件以浏览器建议文件名保存到destDir
	//
	// 返回值:
	//   - *DownloadedFile: 落盘结果
	//   - error: trigger失败、等待超时或落盘失败
	ExpectDownload(destDir string, trigger func() error) (*DownloadedFile, error)

	// ClickAt 点击页面坐标 (用于点击空白处关闭弹出菜单)
	ClickAt(x, y float64) error

	// Scroll 纵向滚动页面
	Scroll(deltaY float64) error

	// Close 关闭页面与浏览器
	Close() error
}

// Element 页面元素能力接口
type Element interface {
	// Attribute 读取属性值
	// 第二个返回值为false表示属性不存在
	Attribute(name string) (string, bool, error)

	// Text 元素可见文本
	Text() (string, error)

	// Click 点击元素
	Click() error

	// ScrollIntoView 滚动到元素可见
	ScrollIntoView() error

	// First 在元素子树内查询第一个匹配元素
	First(selector string) (Element, bool, error)

	// FirstWithText 在元素子树内查询第一个文本包含text的匹配元素
	FirstWithText(selector, text string) (Element, bool, error)
}
