package core

import (
	"math/rand/v2"

	"github.com/rushteam/reckit-movies/pkg/utils"
)

// RecommendContext 承载单次推荐请求的信息，贯穿整个 Pipeline 透传。
// 每个请求独立构造，不在请求间共享。
type RecommendContext struct {
	RequestID string
	Strategy  Strategy

	// Movie 是已经通过 Catalog 解析出的查询电影
	Movie Movie

	// K 是期望返回的推荐数量
	K int

	// Rand 是请求级随机源，用于热门降级采样；为 nil 时由服务注入
	Rand *rand.Rand

	// Labels 是请求级标签，可驱动 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级参数（例如 filter 表达式需要的阈值）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
