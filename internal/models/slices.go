package models

import "fmt"

// SliceRange 候选列表上的一个半开区间 [Start, End), 按Step取下标
// Step为0按1处理; 图表菜单每个逻辑图表渲染两个DOM节点, 用Step=2取偶数位
type SliceRange struct {
	Start int `json:"start" mapstructure:"start" yaml:"start"`
	End   int `json:"end" mapstructure:"end" yaml:"end"`
	Step  int `json:"step,omitempty" mapstructure:"step" yaml:"step,omitempty"`
}

// Indices 展开为下标序列
func (r SliceRange) Indices() []int {
	step := r.Step
	if step <= 0 {
		step = 1
	}
	out := make([]int, 0, (r.End-r.Start+step-1)/step)
	for i := r.Start; i < r.End; i += step {
		out = append(out, i)
	}
	return out
}

// Count 区间覆盖的下标数
func (r SliceRange) Count() int {
	return len(r.Indices())
}

// Validate 验证区间
func (r SliceRange) Validate() error {
	if r.Start < 0 {
		return fmt.Errorf("区间起点不能为负: %d", r.Start)
	}
	if r.End < r.Start {
		return fmt.Errorf("区间终点不能小于起点: [%d, %d)", r.Start, r.End)
	}
	if r.Step < 0 {
		return fmt.Errorf("步长不能为负: %d", r.Step)
	}
	return nil
}

// SliceTable 位置切片表
// 页面的通用查询返回整页候选列表 (含隐藏标签页的内容),
// 本表记录每个标签页在该列表中所占的下标区间。
// 区间边界与上游页面结构强耦合, 页面布局变化时需发布新版本的表,
// 结构探针通过ExpectedTotals检测漂移
type SliceTable struct {
	// Version 表版本 (随上游页面结构变化递增, 加载时记录日志)
	Version string `json:"version" mapstructure:"version" yaml:"version"`

	// MaxCharts 单标签页图表抽取上限 (防失控扫描)
	MaxCharts int `json:"max_charts" mapstructure:"max_charts" yaml:"max_charts"`

	// Resources 资源锚点区间: 模式(dev/prod) → 标签页 → 区间
	Resources map[string]map[string]SliceRange `json:"resources" mapstructure:"resources" yaml:"resources"`

	// Charts 图表菜单区间: 标签页 → 区间 (两环境相同, 偶数位为逻辑菜单)
	Charts map[string]SliceRange `json:"charts" mapstructure:"charts" yaml:"charts"`

	// ExpectedTotals 结构探针预期: 模式 → 资源候选总数
	ExpectedTotals map[string]int `json:"expected_totals" mapstructure:"expected_totals" yaml:"expected_totals"`
}

// ResourceRange 查询标签页在指定环境下的资源区间
func (st *SliceTable) ResourceRange(tab Tab, env Environment) (SliceRange, error) {
	mode := env.Mode()
	byTab, ok := st.Resources[mode]
	if !ok {
		return SliceRange{}, fmt.Errorf("切片表缺少模式 [%s]", mode)
	}
	r, ok := byTab[string(tab)]
	if !ok {
		return SliceRange{}, fmt.Errorf("切片表缺少标签页 [%s] 的资源区间 (模式 %s)", tab, mode)
	}
	return r, nil
}

// ChartRange 查询标签页的图表菜单区间
// 第二个返回值为false表示该标签页没有图表
func (st *SliceTable) ChartRange(tab Tab) (SliceRange, bool) {
	r, ok := st.Charts[string(tab)]
	return r, ok
}

// Validate 整表校验
// 要求: 版本非空、上限合理、两种模式都覆盖全部标签页、
// 各区间合法且不超出该模式的预期候选总数
func (st *SliceTable) Validate() error {
	if st.Version == "" {
		return fmt.Errorf("切片表缺少版本号")
	}
	if st.MaxCharts < 1 || st.MaxCharts > 50 {
		return fmt.Errorf("图表上限必须在1-50之间, 得到 %d", st.MaxCharts)
	}

	for _, mode := range []string{EnvDev.Mode(), EnvProd.Mode()} {
		byTab, ok := st.Resources[mode]
		if !ok {
			return fmt.Errorf("切片表缺少模式 [%s] 的资源区间", mode)
		}
		total, ok := st.ExpectedTotals[mode]
		if !ok || total <= 0 {
			return fmt.Errorf("切片表缺少模式 [%s] 的预期候选总数", mode)
		}
		for _, tab := range AllTabs {
			r, ok := byTab[string(tab)]
			if !ok {
				return fmt.Errorf("切片表缺少标签页 [%s] 的资源区间 (模式 %s)", tab, mode)
			}
			if err := r.Validate(); err != nil {
				return fmt.Errorf("标签页 [%s] 资源区间非法 (模式 %s): %w", tab, mode, err)
			}
			if r.End > total {
				return fmt.Errorf("标签页 [%s] 资源区间超出预期候选总数 (模式 %s): %d > %d",
					tab, mode, r.End, total)
			}
		}
	}

	for tabKey, r := range st.Charts {
		if !Tab(tabKey).Valid() {
			return fmt.Errorf("切片表图表区间包含未知标签页 [%s]", tabKey)
		}
		if !Tab(tabKey).Policy().HasCharts {
			return fmt.Errorf("标签页 [%s] 不应有图表区间", tabKey)
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("标签页 [%s] 图表区间非法: %w", tabKey, err)
		}
	}
	for _, tab := range AllTabs {
		if tab.Policy().HasCharts {
			if _, ok := st.Charts[string(tab)]; !ok {
				return fmt.Errorf("切片表缺少标签页 [%s] 的图表区间", tab)
			}
		}
	}

	return nil
}

// CheckProbeCount 结构探针比对
// 实际候选数与表中预期不符说明上游页面结构已漂移, 返回配置级错误
func (st *SliceTable) CheckProbeCount(env Environment, actual int) error {
	expected, ok := st.ExpectedTotals[env.Mode()]
	if !ok {
		return fmt.Errorf("切片表缺少模式 [%s] 的预期候选总数", env.Mode())
	}
	if actual != expected {
		return fmt.Errorf("资源候选数与切片表不符: 实际 %d, 预期 %d (模式 %s, 表版本 %s)",
			actual, expected, env.Mode(), st.Version)
	}
	return nil
}
