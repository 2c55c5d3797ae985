package catalog

import "regexp"

var yearPattern = regexp.MustCompile(`\((\d{4})\)`)

// ExtractYear 从标题中提取括号内的四位年份，例如 "Heat (1995)" -> "1995"。
func ExtractYear(title string) (string, bool) {
	m := yearPattern.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	return m[1], true
}
