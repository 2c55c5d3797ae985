package catalog

import "strings"

const (
	starFull  = "★"
	starHalf  = "⯨"
	starEmpty = "☆"
)

// StarRating 把 0-5 的评分渲染为五颗星：小数部分 >= 0.75 进一颗整星，>= 0.25 为半星。
func StarRating(rating float64) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	full := int(rating)
	half := 0
	if frac := rating - float64(full); frac >= 0.75 {
		full++
	} else if frac >= 0.25 {
		half = 1
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(starFull, full))
	if half == 1 {
		b.WriteString(starHalf)
	}
	b.WriteString(strings.Repeat(starEmpty, 5-full-half))
	return b.String()
}
