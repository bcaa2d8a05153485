// Package dashboard 实现ODM仪表盘的标签页遍历、资源/图表定位与下载协调
//
// # 概述
//
// 仪表盘的页面结构有一个关键特点: 隐藏标签页的内容仍保留在文档中,
// 所以通用查询 (下载锚点、图表导出菜单) 返回的是整页候选列表。
// 本包负责把这份过量候选切成标签页专属的确定性区间, 清洗后交给下载协调器。
//
// # 核心组件
//
// ## Locator (定位器)
//
// 按切片表 (models.SliceTable) 从整页候选中取出当前标签页的资源锚点与
// 图表菜单。下标越界按单项跳过处理, 不中止标签页。
//
// ## DedupeResources (去重)
//
// 以Href为身份的首见保序去重, 整条记录为单位, 不拆平行列表。
//
// ## SortKey / SortByCountry (排序键)
//
// 国家档案标签页的资源到达顺序与国家按钮顺序无关, 需要先按
// (国家slug, 文档类型) 稳定重排, 再按每国两个资源连续配对切片。
//
// ## Downloader (下载协调器)
//
// 资源下载 (代理格式生成零字节占位文件, 其余走浏览器交互下载,
// 找不到锚点时直连兜底) 与图表导出 (每图表4个固定选项, 逐项隔离失败)。
//
// ## Navigator (导航器)
//
// 串行遍历5个固定标签页, 按各标签页的抽取策略驱动二级选择器
// (维度按钮 / 国家按钮) 与上述组件。严格顺序: 同一国家的图表先于
// 资源完成, 再激活下一个国家, 避免DOM原地变更后的陈旧引用。
//
// ## Probe (结构探针)
//
// 浏览器启动前用colly直接抓取入口页, 统计服务端渲染的下载锚点数量,
// 与切片表的预期总数比对, 把上游页面结构漂移暴露为配置错误。
//
// # 并发模型
//
// 全程单线程串行: 一个标签页完全处理完毕才进入下一个, 没有并发下载。
// 阻塞点只有浏览器自动化调用 (导航、点击、等待下载完成)。
package dashboard
