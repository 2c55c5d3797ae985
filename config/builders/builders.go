// Package builders 注册内置的后处理 Node，入口处以空导入触发：
//
//	import _ "github.com/rushteam/reckit-movies/config/builders"
package builders

import (
	"fmt"

	"github.com/rushteam/reckit-movies/config"
	"github.com/rushteam/reckit-movies/filter"
	"github.com/rushteam/reckit-movies/pipeline"
	"github.com/rushteam/reckit-movies/pkg/conv"
	"github.com/rushteam/reckit-movies/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

// BuildFilterNode 支持的过滤器：
//
//	- type: blacklist
//	  item_ids: [1, 2, 3]
//	- type: expr
//	  expr: 'item.num_ratings >= 50'
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "blacklist":
			ids := conv.SliceAnyToInt64(filterMap["item_ids"])
			filters = append(filters, filter.NewBlacklistFilter(ids, nil, ""))
		case "expr":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("expr filter requires expr")
			}
			f, err := filter.NewExprFilter(expr)
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N:           int(conv.ConfigGetInt64(cfg, "n", 0)),
		UseRequestK: conv.ConfigGet(cfg, "use_request_k", false),
	}, nil
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		MaxPerGenre: int(conv.ConfigGetInt64(cfg, "max_per_genre", 1)),
		LabelKey:    conv.ConfigGet(cfg, "label_key", ""),
	}, nil
}
