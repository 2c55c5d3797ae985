// Package dsl 提供基于 CEL 的推荐记录表达式。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/reckit-movies/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的表达式，线程安全，可以对多条记录重复求值。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.avg_rating >= 3.5 / item.num_ratings > 100 / item.score > 0.7
//   - 包含："Comedy" in item.genres
//   - 字符串：item.year >= "1990" / item.title.contains("Star")
//   - 存在性：item.avg_rating != null
//   - 标签：label.recall_source == "knn"
//   - 请求：rctx.strategy == "mf" && rctx.movie_id != item.id
//   - 请求标签：has(rctx.labels.fallback)
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

func (p *Program) String() string { return p.expr }

// Eval 对一条记录求值，表达式必须返回布尔值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		// 访问不存在的 label key 会报错，应先用 label.key != null 判断
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

// Eval 是一次性求值的便捷封装，适合测试/调试；线上请先 Compile 再复用 Program。
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
}

func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	return &Eval{item: item, rctx: rctx}
}

// Evaluate 编译并执行表达式，空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(e.item, e.rctx)
}

func buildInput(it *core.Item, rctx *core.RecommendContext) map[string]any {
	item := map[string]any{}
	label := map[string]any{}
	if it != nil {
		var avg any
		if it.AvgRating != nil {
			avg = *it.AvgRating
		}
		genres := make([]string, len(it.Genres))
		copy(genres, it.Genres)
		item = map[string]any{
			"id":          it.ID,
			"title":       it.Title,
			"genres":      genres,
			"avg_rating":  avg,
			"num_ratings": int64(it.NumRatings),
			"year":        it.Year,
			"score":       it.Score,
		}
		for k, v := range it.Labels {
			label[k] = v.Value
		}
	}

	r := map[string]any{}
	if rctx != nil {
		params := rctx.Params
		if params == nil {
			params = map[string]any{}
		}
		labels := make(map[string]any, len(rctx.Labels))
		for k, v := range rctx.Labels {
			labels[k] = v.Value
		}
		r = map[string]any{
			"labels":      labels,
			"request_id":  rctx.RequestID,
			"strategy":    string(rctx.Strategy),
			"k":           int64(rctx.K),
			"movie_id":    rctx.Movie.ID,
			"movie_title": rctx.Movie.Title,
			"params":      params,
		}
	}

	return map[string]any{
		"item":  item,
		"label": label,
		"rctx":  r,
	}
}
