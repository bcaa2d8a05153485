package models

import "fmt"

// Country 参评国家
type Country struct {
	Name string `json:"name"` // 国家显示名 (与按钮aria-label一致)
	Code string `json:"code"` // 两位国家代码 (希腊按上游习惯为EL)
}

// DefaultCountries 2024年度参评的34个国家
// 顺序与国家档案标签页的按钮顺序一致, 资源两两配对依赖该顺序
var DefaultCountries = []Country{
	{Name: "Albania", Code: "AL"},
	{Name: "Austria", Code: "AT"},
	{Name: "Belgium", Code: "BE"},
	{Name: "Bosnia and Herzegovina", Code: "BA"},
	{Name: "Bulgaria", Code: "BG"},
	{Name: "Croatia", Code: "HR"},
	{Name: "Cyprus", Code: "CY"},
	{Name: "Czechia", Code: "CZ"},
	{Name: "Denmark", Code: "DK"},
	{Name: "Estonia", Code: "EE"},
	{Name: "Finland", Code: "FI"},
	{Name: "France", Code: "FR"},
	{Name: "Germany", Code: "DE"},
	{Name: "Greece", Code: "EL"},
	{Name: "Hungary", Code: "HU"},
	{Name: "Iceland", Code: "IS"},
	{Name: "Ireland", Code: "IE"},
	{Name: "Italy", Code: "IT"},
	{Name: "Latvia", Code: "LV"},
	{Name: "Lithuania", Code: "LT"},
	{Name: "Luxembourg", Code: "LU"},
	{Name: "Malta", Code: "MT"},
	{Name: "Netherlands", Code: "NL"},
	{Name: "Norway", Code: "NO"},
	{Name: "Poland", Code: "PL"},
	{Name: "Portugal", Code: "PT"},
	{Name: "Romania", Code: "RO"},
	{Name: "Serbia", Code: "RS"},
	{Name: "Slovakia", Code: "SK"},
	{Name: "Slovenia", Code: "SI"},
	{Name: "Spain", Code: "ES"},
	{Name: "Sweden", Code: "SE"},
	{Name: "Switzerland", Code: "CH"},
	{Name: "Ukraine", Code: "UA"},
}

// ValidateCountries 校验国家列表
// 要求: 名称唯一、代码唯一且为两位大写字母
func ValidateCountries(list []Country) error {
	if len(list) == 0 {
		return fmt.Errorf("国家列表不能为空")
	}

	seenName := make(map[string]bool, len(list))
	seenCode := make(map[string]bool, len(list))

	for _, c := range list {
		if c.Name == "" {
			return &ValidationError{
				Field:  "name",
				Item:   c.Code,
				Reason: "国家名称不能为空",
			}
		}
		if len(c.Code) != 2 {
			return &ValidationError{
				Field:      "code",
				Item:       c.Name,
				Reason:     fmt.Sprintf("国家代码必须是两位字母, 得到 %q", c.Code),
				Suggestion: "使用两位国家代码 (如 'AT', 'FR')",
			}
		}
		for _, ch := range c.Code {
			if ch < 'A' || ch > 'Z' {
				return &ValidationError{
					Field:  "code",
					Item:   c.Name,
					Reason: fmt.Sprintf("国家代码必须是大写字母, 得到 %q", c.Code),
				}
			}
		}
		if seenName[c.Name] {
			return &ValidationError{
				Field:  "name",
				Item:   c.Name,
				Reason: "国家名称重复",
			}
		}
		if seenCode[c.Code] {
			return &ValidationError{
				Field:  "code",
				Item:   c.Code,
				Reason: "国家代码重复",
			}
		}
		seenName[c.Name] = true
		seenCode[c.Code] = true
	}

	return nil
}
