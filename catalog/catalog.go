// Package catalog 提供电影目录的只读视图：电影表、评分表、海报表，以及按电影的评分聚合。
//
// 目录在进程启动时加载一次，之后不再修改，可以被多个请求并发读取而无需加锁。
package catalog

import (
	"math"

	"github.com/rushteam/reckit-movies/core"
)

// DefaultPlaceholderImage 是没有海报时使用的占位图。
const DefaultPlaceholderImage = "https://upload.wikimedia.org/wikipedia/commons/1/14/No_Image_Available.jpg"

// Catalog 是电影/评分/海报的静态内存视图。
type Catalog struct {
	movies  []core.Movie
	ratings []core.Rating

	byID    map[int64]int // movieID -> movies 下标
	byTitle map[string]int

	aggregates map[int64]core.Aggregate
	images     map[int64]string

	placeholder string
}

// Option 配置 Catalog。
type Option func(*Catalog)

// WithPlaceholderImage 覆盖默认占位图 URL。
func WithPlaceholderImage(url string) Option {
	return func(c *Catalog) {
		if url != "" {
			c.placeholder = url
		}
	}
}

// New 基于已解析的表构建目录。评分表在此处一次性聚合；
// 重复的电影 ID 或标题以表中第一次出现的为准。
func New(movies []core.Movie, ratings []core.Rating, images map[int64]string, opts ...Option) *Catalog {
	c := &Catalog{
		movies:      movies,
		ratings:     ratings,
		byID:        make(map[int64]int, len(movies)),
		byTitle:     make(map[string]int, len(movies)),
		aggregates:  make(map[int64]core.Aggregate),
		images:      make(map[int64]string, len(images)),
		placeholder: DefaultPlaceholderImage,
	}
	for _, opt := range opts {
		opt(c)
	}

	for i, m := range movies {
		if _, ok := c.byID[m.ID]; !ok {
			c.byID[m.ID] = i
		}
		if _, ok := c.byTitle[m.Title]; !ok {
			c.byTitle[m.Title] = i
		}
	}

	sums := make(map[int64]float64)
	for _, r := range ratings {
		sums[r.MovieID] += r.Score
		agg := c.aggregates[r.MovieID]
		agg.Count++
		c.aggregates[r.MovieID] = agg
	}
	for id, agg := range c.aggregates {
		agg.Mean = sums[id] / float64(agg.Count)
		c.aggregates[id] = agg
	}

	for id, url := range images {
		if url != "" {
			c.images[id] = url
		}
	}
	return c
}

// FindByTitle 按标题精确匹配。
func (c *Catalog) FindByTitle(title string) (core.Movie, bool) {
	i, ok := c.byTitle[title]
	if !ok {
		return core.Movie{}, false
	}
	return c.movies[i], true
}

// FindByID 按电影 ID 查找。
func (c *Catalog) FindByID(id int64) (core.Movie, bool) {
	i, ok := c.byID[id]
	if !ok {
		return core.Movie{}, false
	}
	return c.movies[i], true
}

// AggregateFor 返回电影的评分均值与次数；没有评分时返回 false（均值无定义，而不是 0）。
func (c *Catalog) AggregateFor(id int64) (core.Aggregate, bool) {
	agg, ok := c.aggregates[id]
	return agg, ok
}

// Aggregates 返回所有有评分电影的聚合结果。返回的是副本。
func (c *Catalog) Aggregates() map[int64]core.Aggregate {
	out := make(map[int64]core.Aggregate, len(c.aggregates))
	for id, agg := range c.aggregates {
		out[id] = agg
	}
	return out
}

// ImageFor 返回海报 URL，没有时返回占位图。
func (c *Catalog) ImageFor(id int64) string {
	if url, ok := c.images[id]; ok {
		return url
	}
	return c.placeholder
}

// Movies 返回电影表（只读）。
func (c *Catalog) Movies() []core.Movie { return c.movies }

// Ratings 返回评分表（只读）。
func (c *Catalog) Ratings() []core.Rating { return c.ratings }

// Len 返回电影数量。
func (c *Catalog) Len() int { return len(c.movies) }

// Record 为电影构建一条推荐记录：标题、类型、一位小数的平均评分、评分次数、年份、海报。
// 电影不在目录中时返回 false，调用方应静默跳过。
func (c *Catalog) Record(id int64) (*core.Item, bool) {
	m, ok := c.FindByID(id)
	if !ok {
		return nil, false
	}
	it := core.NewItem(id)
	it.Title = m.Title
	it.Genres = append([]string(nil), m.Genres...)
	if agg, ok := c.aggregates[id]; ok {
		avg := RoundRating(agg.Mean)
		it.AvgRating = &avg
		it.NumRatings = agg.Count
	}
	it.Year, _ = ExtractYear(m.Title)
	it.Image = c.ImageFor(id)
	return it, true
}

// RoundRating 把评分四舍五入到一位小数。
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
