package rerank

import (
	"context"

	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在过滤/重排后截取前 N 个物品。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &filter.FilterNode{...},       // 过滤
//	        &rerank.Diversity{MaxPerGenre: 2}, // 类型多样性
//	        &rerank.TopNNode{N: 10},       // 截取 Top 10
//	    },
//	}
type TopNNode struct {
	// N 要保留的物品数量（Top N）
	// 如果 N <= 0，则返回所有物品（不截断）
	N int

	// UseRequestK 为 true 时以 rctx.K 作为 N（rctx.K > 0 时生效）
	UseRequestK bool
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if n.UseRequestK && rctx != nil && rctx.K > 0 {
		limit = rctx.K
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
