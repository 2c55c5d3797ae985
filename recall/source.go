package recall

import (
	"context"

	"github.com/rushteam/reckit-movies/core"
)

// Source 表示一个可复用的召回源（热门/近邻/隐向量）。
// Source 从 RecommendContext 读取查询电影与 K。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// Retriever 是基于单个查询电影的召回：返回与 movie 相似的至多 k 部电影。
// 电影不在模型索引空间中时返回 core.ErrItemUnmapped。
type Retriever interface {
	Source
	Retrieve(ctx context.Context, movie core.Movie, k int) ([]*core.Item, error)
}

// LabelRecallSource 记录召回来源，方便 explain / 观测。
const LabelRecallSource = "recall_source"
