package rerank

import (
	"context"

	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/pipeline"
)

// Diversity 是按电影类型做多样性的 ReRank：同一主类型（Genres[0]）最多保留 MaxPerGenre 个在前列，
// 超出的不会丢弃，而是按原相对顺序挪到末尾。配合 TopNNode 使用时即为“打散后截断”。
//
// LabelKey 非空时优先使用该 label 的值作为类别。
type Diversity struct {
	MaxPerGenre int    // 默认 1
	LabelKey    string // 可选
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	limit := n.MaxPerGenre
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[string]int, 32)
	head := make([]*core.Item, 0, len(items))
	var tail []*core.Item

	for _, it := range items {
		if it == nil {
			continue
		}
		cate := n.category(it)
		if cate == "" {
			head = append(head, it)
			continue
		}
		if seen[cate] >= limit {
			tail = append(tail, it)
			continue
		}
		seen[cate]++
		head = append(head, it)
	}
	return append(head, tail...), nil
}

func (n *Diversity) category(it *core.Item) string {
	if n.LabelKey != "" {
		if lbl, ok := it.Labels[n.LabelKey]; ok && lbl.Value != "" {
			return lbl.Value
		}
	}
	if len(it.Genres) > 0 {
		return it.Genres[0]
	}
	return ""
}
