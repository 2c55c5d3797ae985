package recall

import (
	"context"
	"sort"

	"github.com/rushteam/reckit-movies/catalog"
	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/model"
	"github.com/rushteam/reckit-movies/pipeline"
	"github.com/rushteam/reckit-movies/pkg/utils"
)

// LatentFactor 是基于矩阵分解物品隐向量的召回源。
//
// 核心思想：查询电影的隐向量与所有电影隐向量（包括自身）计算余弦相似度，
// 按相似度降序稳定排序（相同相似度时内部索引小的在前），排除自身后取前 k 个。
//
// 工程特征：
//   - 计算复杂度：O(n·d + n log n)，n 为训练集电影数（几千量级）
//   - 模型只读，无锁并发安全
//
// Label：recall_source=mf
type LatentFactor struct {
	Catalog *catalog.Catalog
	Model   core.LatentFactorModel
}

func NewLatentFactor(c *catalog.Catalog, m core.LatentFactorModel) *LatentFactor {
	return &LatentFactor{Catalog: c, Model: m}
}

func (r *LatentFactor) Name() string        { return "recall.mf" }
func (r *LatentFactor) Kind() pipeline.Kind { return pipeline.KindRecall }

type scoredIndex struct {
	inner int
	score float64
}

// similar 返回按余弦相似度降序排列的内部索引（不含 inner 自身），至多 k 个。
func (r *LatentFactor) similar(inner, k int) []scoredIndex {
	target := r.Model.Factors(inner)
	n := r.Model.Len()
	scores := make([]scoredIndex, 0, n)
	for i := 0; i < n; i++ {
		scores = append(scores, scoredIndex{inner: i, score: model.Cosine(target, r.Model.Factors(i))})
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].score > scores[b].score
	})

	out := make([]scoredIndex, 0, min(k, n))
	for _, s := range scores {
		if len(out) == k {
			break
		}
		if s.inner == inner {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *LatentFactor) Retrieve(ctx context.Context, movie core.Movie, k int) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inner, ok := r.Model.ToInner(movie.ID)
	if !ok {
		return nil, core.ErrItemUnmapped
	}
	if k <= 0 {
		return nil, nil
	}

	top := r.similar(inner, k)
	out := make([]*core.Item, 0, len(top))
	for _, s := range top {
		rawID, ok := r.Model.ToRaw(s.inner)
		if !ok {
			continue
		}
		it, ok := r.Catalog.Record(rawID)
		if !ok {
			continue
		}
		it.Score = s.score
		it.PutLabel(LabelRecallSource, utils.Label{Value: string(core.StrategyLatentFactor), Source: utils.SourceRecall})
		out = append(out, it)
	}
	return out, nil
}

// Recall 实现 Source 接口
func (r *LatentFactor) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	return r.Retrieve(ctx, rctx.Movie, rctx.K)
}

// Process 实现 Node 接口，直接调用 Recall
func (r *LatentFactor) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

var (
	_ Retriever     = (*LatentFactor)(nil)
	_ pipeline.Node = (*LatentFactor)(nil)
)
