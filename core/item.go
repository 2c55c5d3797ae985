package core

import "github.com/rushteam/reckit-movies/pkg/utils"

// Item 是推荐链路中的统一承载结构，也是最终返回给调用方的推荐记录。
// 召回阶段写入 ID/Score/Labels，Catalog 补全标题、类型、评分等展示信息。
type Item struct {
	ID     int64    `json:"movie_id"`
	Title  string   `json:"title"`
	Genres []string `json:"genre"`

	// AvgRating 为平均评分（保留一位小数）；nil 表示该电影没有评分数据。
	AvgRating  *float64 `json:"avg_rating"`
	NumRatings int      `json:"num_ratings"`

	Year  string `json:"year,omitempty"`
	Image string `json:"image,omitempty"`

	// Score 是召回阶段的相似度分数，仅用于解释/观测。
	Score  float64                `json:"score,omitempty"`
	Labels map[string]utils.Label `json:"labels,omitempty"`
}

func NewItem(id int64) *Item {
	return &Item{
		ID:     id,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Clone 返回一份深拷贝，缓存中的 Item 在返回给调用方前需要拷贝，避免被下游 Node 修改。
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	cp := *it
	if it.Genres != nil {
		cp.Genres = append([]string(nil), it.Genres...)
	}
	if it.AvgRating != nil {
		v := *it.AvgRating
		cp.AvgRating = &v
	}
	cp.Labels = make(map[string]utils.Label, len(it.Labels))
	for k, v := range it.Labels {
		cp.Labels[k] = v
	}
	return &cp
}
