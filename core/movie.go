package core

// Movie 是目录中的一部电影，加载后不可变。
// Title 可能内嵌四位年份，例如 "Toy Story (1995)"。
type Movie struct {
	ID     int64    `json:"movie_id"`
	Title  string   `json:"title"`
	Genres []string `json:"genre"`
}

// Rating 是一条用户评分。核心链路只按电影聚合使用。
type Rating struct {
	UserID    int64   `json:"user_id"`
	MovieID   int64   `json:"movie_id"`
	Score     float64 `json:"rating"`
	Timestamp int64   `json:"timestamp"`
}

// Aggregate 是单部电影的评分聚合（均值 + 次数），由评分表派生。
type Aggregate struct {
	Mean  float64
	Count int
}
