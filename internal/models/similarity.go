package models

// NameSimilarity 文件名相似度 (归一化Levenshtein编辑距离, 0-1)
// 核对阶段用于疑似改名提示: 缺失项与多余项同格式且名称高度相似时,
// 大概率是上游改了文件名而不是真的缺文件
func NameSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	return 1.0 - float64(levenshtein(ra, rb))/float64(longer)
}

// levenshtein 编辑距离 (两行滚动数组)
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
