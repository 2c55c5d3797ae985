package recall

import (
	"context"

	"github.com/rushteam/reckit-movies/catalog"
	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/pipeline"
	"github.com/rushteam/reckit-movies/pkg/utils"
)

// Neighborhood 是基于预训练物品近邻模型的召回源。
//
// 流程：电影 ID -> 内部索引 -> 模型 k 近邻 -> 目录电影 ID -> 目录补全。
// 输出保持模型返回的近邻顺序（最近的在前），不再重排；
// 模型返回但目录中不存在的电影静默跳过。
//
// Label：recall_source=knn
type Neighborhood struct {
	Catalog *catalog.Catalog
	Model   core.NeighborhoodModel
}

func NewNeighborhood(c *catalog.Catalog, m core.NeighborhoodModel) *Neighborhood {
	return &Neighborhood{Catalog: c, Model: m}
}

func (r *Neighborhood) Name() string        { return "recall.knn" }
func (r *Neighborhood) Kind() pipeline.Kind { return pipeline.KindRecall }

// similarityModel 是可选能力：模型能给出两个内部索引的相似度时写入 Item.Score。
type similarityModel interface {
	Similarity(i, j int) float64
}

func (r *Neighborhood) Retrieve(ctx context.Context, movie core.Movie, k int) ([]*core.Item, error) {
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

	sm, hasSim := r.Model.(similarityModel)
	neighbors := r.Model.NearestNeighbors(inner, k)
	out := make([]*core.Item, 0, len(neighbors))
	for _, n := range neighbors {
		rawID, ok := r.Model.ToRaw(n)
		if !ok {
			continue
		}
		it, ok := r.Catalog.Record(rawID)
		if !ok {
			continue
		}
		if hasSim {
			it.Score = sm.Similarity(inner, n)
		}
		it.PutLabel(LabelRecallSource, utils.Label{Value: string(core.StrategyNeighborhood), Source: utils.SourceRecall})
		out = append(out, it)
		if len(out) == k {
			break
		}
	}
	return out, nil
}

// Recall 实现 Source 接口
func (r *Neighborhood) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	return r.Retrieve(ctx, rctx.Movie, rctx.K)
}

// Process 实现 Node 接口，直接调用 Recall
func (r *Neighborhood) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

var (
	_ Retriever     = (*Neighborhood)(nil)
	_ pipeline.Node = (*Neighborhood)(nil)
)
