// Package catalogtest 提供构造测试目录的辅助函数。
package catalogtest

import (
	"strconv"

	"github.com/rushteam/reckit-movies/catalog"
	"github.com/rushteam/reckit-movies/core"
)

// RatingsWithMean 为电影生成 count 条评分，每条评分都等于 mean。
func RatingsWithMean(movieID int64, count int, mean float64) []core.Rating {
	out := make([]core.Rating, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, core.Rating{
			UserID:    int64(i + 1),
			MovieID:   movieID,
			Score:     mean,
			Timestamp: 978300760 + int64(i),
		})
	}
	return out
}

// Movie 构造一部电影。
func Movie(id int64, title string, genres ...string) core.Movie {
	return core.Movie{ID: id, Title: title, Genres: genres}
}

// Builder 以链式方式构造测试目录。
type Builder struct {
	movies  []core.Movie
	ratings []core.Rating
	images  map[int64]string
}

func NewBuilder() *Builder {
	return &Builder{images: make(map[int64]string)}
}

// Add 添加一部电影以及 count 条均值为 mean 的评分（count 为 0 表示没有评分）。
func (b *Builder) Add(m core.Movie, count int, mean float64) *Builder {
	b.movies = append(b.movies, m)
	b.ratings = append(b.ratings, RatingsWithMean(m.ID, count, mean)...)
	return b
}

// Ratings 追加原始评分。
func (b *Builder) Ratings(rs ...core.Rating) *Builder {
	b.ratings = append(b.ratings, rs...)
	return b
}

// Image 设置海报。
func (b *Builder) Image(id int64, url string) *Builder {
	b.images[id] = url
	return b
}

// Build 构建目录。
func (b *Builder) Build(opts ...catalog.Option) *catalog.Catalog {
	return catalog.New(b.movies, b.ratings, b.images, opts...)
}

// Snapshot 返回对应的快照。
func (b *Builder) Snapshot() *catalog.Snapshot {
	snap := &catalog.Snapshot{Movies: b.movies, Ratings: b.ratings}
	for id, url := range b.images {
		snap.Images = append(snap.Images, catalog.Image{MovieID: id, URL: url})
	}
	return snap
}

// PopularCatalog 构造 n 部评分足够（>= 20 次）的电影，ID 为 1..n，均值从 5.0 依次递减，
// 以及若干评分不足的冷门电影（ID 从 1000 开始）。
func PopularCatalog(n, cold int) *catalog.Catalog {
	b := NewBuilder()
	for i := 1; i <= n; i++ {
		mean := 5.0 - float64(i)*0.01
		b.Add(Movie(int64(i), movieTitle(i), "Drama"), 20+i%7, mean)
	}
	for i := 0; i < cold; i++ {
		b.Add(Movie(int64(1000+i), movieTitle(1000+i), "Horror"), 19, 5.0)
	}
	return b.Build()
}

func movieTitle(i int) string {
	return "Movie " + strconv.Itoa(i) + " (1999)"
}
