package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/reckit-movies/core"
)

// Pipeline 把推荐后处理拆成可组合的 Node 链：召回结果依次经过过滤、重排、截断。
type Pipeline struct {
	Name  string
	Nodes []Node
}

// Run 依次执行各 Node；任何一个 Node 出错即中止并返回带 Node 名称的错误。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if p == nil {
		return items, nil
	}
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// Len 返回 Node 数量。
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Nodes)
}
