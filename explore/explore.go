// Package explore 提供评分数据集的探索统计：类型分布、类型评分次数/均值、高分电影榜。
//
// 统计口径：一部电影属于多个类型时，它的每条评分都会计入每个类型。
package explore

import (
	"sort"

	"github.com/rushteam/reckit-movies/catalog"
	"github.com/rushteam/reckit-movies/core"
)

const (
	DefaultMostRatedGenres = 5
	DefaultRatedGenres     = 3
	DefaultTopK            = 10
	MinTopK                = 5
	MaxTopK                = 50
)

// GenreCount 是一个类型的计数。
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// GenreRating 是一个类型的平均评分。
type GenreRating struct {
	Genre string  `json:"genre"`
	Mean  float64 `json:"rating"`
	Count int     `json:"count"`
}

// MovieRating 是高分榜中的一部电影。
type MovieRating struct {
	ID    int64   `json:"movie_id"`
	Title string  `json:"title"`
	Mean  float64 `json:"rating"`
	Count int     `json:"count"`
}

// Explorer 基于只读目录计算统计结果，本身无状态，可并发使用。
type Explorer struct {
	catalog  *catalog.Catalog
	minCount int
}

// New 创建 Explorer，高分榜的最小评分次数取默认值 100。
func New(c *catalog.Catalog) *Explorer {
	return &Explorer{catalog: c, minCount: (&core.DefaultRecallConfig{}).DefaultExploreMinCount()}
}

// GenreDistribution 返回每个类型的电影数量，按数量降序，同数量按类型名升序。
func (e *Explorer) GenreDistribution() []GenreCount {
	counts := make(map[string]int)
	for _, m := range e.catalog.Movies() {
		for _, g := range m.Genres {
			counts[g]++
		}
	}
	return sortedCounts(counts)
}

// MostRatedGenres 返回评分次数最多的 n 个类型（n <= 0 时取 5）。
func (e *Explorer) MostRatedGenres(n int) []GenreCount {
	if n <= 0 {
		n = DefaultMostRatedGenres
	}
	counts := make(map[string]int)
	for _, s := range e.genreStats() {
		counts[s.Genre] = s.Count
	}
	out := sortedCounts(counts)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// GenreMeanRatings 返回每个类型的平均评分，按均值降序，同均值按类型名升序。
func (e *Explorer) GenreMeanRatings() []GenreRating {
	out := e.genreStats()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}

// HighestRatedGenres 返回均值最高的 n 个类型（n <= 0 时取 3）。
func (e *Explorer) HighestRatedGenres(n int) []GenreRating {
	if n <= 0 {
		n = DefaultRatedGenres
	}
	all := e.GenreMeanRatings()
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// LowestRatedGenres 返回均值最低的 n 个类型（n <= 0 时取 3），仍按均值降序排列，即列表末尾。
func (e *Explorer) LowestRatedGenres(n int) []GenreRating {
	if n <= 0 {
		n = DefaultRatedGenres
	}
	all := e.GenreMeanRatings()
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// TopRatedMovies 返回评分次数 >= minCount 的电影中均值最高的 k 部。
// k 被限制在 [5, 50]（k <= 0 时取 10）；minCount <= 0 时取 100。
// 同均值按电影 ID 升序。
func (e *Explorer) TopRatedMovies(k, minCount int) []MovieRating {
	k = ClampTopK(k)
	if minCount <= 0 {
		minCount = e.minCount
	}

	var out []MovieRating
	for id, agg := range e.catalog.Aggregates() {
		if agg.Count < minCount {
			continue
		}
		m, ok := e.catalog.FindByID(id)
		if !ok {
			continue
		}
		out = append(out, MovieRating{ID: id, Title: m.Title, Mean: agg.Mean, Count: agg.Count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// ClampTopK 把高分榜长度限制在 [MinTopK, MaxTopK]，k <= 0 时返回默认值。
func ClampTopK(k int) int {
	switch {
	case k <= 0:
		return DefaultTopK
	case k < MinTopK:
		return MinTopK
	case k > MaxTopK:
		return MaxTopK
	}
	return k
}

func (e *Explorer) genreStats() []GenreRating {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range e.catalog.Ratings() {
		m, ok := e.catalog.FindByID(r.MovieID)
		if !ok {
			continue
		}
		for _, g := range m.Genres {
			sums[g] += r.Score
			counts[g]++
		}
	}
	out := make([]GenreRating, 0, len(counts))
	for g, n := range counts {
		out = append(out, GenreRating{Genre: g, Mean: sums[g] / float64(n), Count: n})
	}
	return out
}

func sortedCounts(counts map[string]int) []GenreCount {
	out := make([]GenreCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, GenreCount{Genre: g, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}
