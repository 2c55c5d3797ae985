package filter

import (
	"context"

	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/logging"
	"github.com/rushteam/reckit-movies/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉；
// 过滤器出错时记录日志并视为保留，不中断请求。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if n.shouldFilter(ctx, rctx, item) {
			continue
		}
		out = append(out, item)
	}

	if dropped := len(items) - len(out); dropped > 0 {
		logging.Ctx(ctx).Debug().Int("dropped", dropped).Int("kept", len(out)).Msg("filter node applied")
	}
	return out, nil
}

func (n *FilterNode) shouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) bool {
	for _, f := range n.Filters {
		ok, err := f.ShouldFilter(ctx, rctx, item)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("filter", f.Name()).Int64("movie_id", item.ID).Msg("filter failed, keeping item")
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
