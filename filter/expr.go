package filter

import (
	"context"

	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/pkg/dsl"
)

// ExprFilter 按 CEL 表达式过滤：表达式为 true 的记录保留，false 的被过滤。
//
//	f, err := filter.NewExprFilter(`item.avg_rating != null && item.avg_rating >= 3.5`)
//	f, err := filter.NewExprFilter(`!("Horror" in item.genres)`)
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式，语法错误在构建时返回。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	keep, err := f.prg.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}

// Expr 返回表达式原文。
func (f *ExprFilter) Expr() string { return f.prg.String() }
