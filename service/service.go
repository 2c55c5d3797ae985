// Package service 提供推荐服务：按策略分派到近邻/隐向量召回，
// 电影不在模型索引空间时用热门榜随机降级，并通过 Catalog 组装推荐记录。
//
// Service 由 New 显式构造，构造后不可变，可以被多个请求并发调用。
package service

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/rushteam/reckit-movies/catalog"
	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/logging"
	"github.com/rushteam/reckit-movies/metrics"
	"github.com/rushteam/reckit-movies/pipeline"
	"github.com/rushteam/reckit-movies/pkg/utils"
	"github.com/rushteam/reckit-movies/recall"
)

// LabelFallback 标记降级结果（同时写在记录与请求上），Value 为原请求策略。
const LabelFallback = "fallback"

// Request 是一次推荐请求。
type Request struct {
	// Strategy 策略名称，见 core.ParseStrategy
	Strategy string
	// Title 查询电影的完整标题（精确匹配）
	Title string
	K     int

	// Params 透传给后处理 Pipeline（例如 expr 过滤需要的阈值）
	Params map[string]any
}

// Response 是推荐结果。Items 为空表示无法推荐（未知策略/未知标题/k <= 0），不是错误。
type Response struct {
	Items     []*core.Item `json:"items"`
	Strategy  string       `json:"strategy,omitempty"`
	Fallback  bool         `json:"fallback"`
	RequestID string       `json:"request_id,omitempty"`
}

// RandSource 为每个请求返回一个独立的随机源。
type RandSource func() *rand.Rand

// Option 配置 Service。
type Option func(*Service)

// WithRandSource 注入请求级随机源，测试可以传入固定种子。
func WithRandSource(src RandSource) Option {
	return func(s *Service) {
		if src != nil {
			s.randSource = src
		}
	}
}

// WithSeed 让降级采样可复现：第 n 个请求使用 PCG(seed, n)。
// seed 为 0 时保持默认的非确定行为。
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		if seed == 0 {
			return
		}
		var n atomic.Uint64
		s.randSource = func() *rand.Rand {
			return rand.New(rand.NewPCG(seed, n.Add(1)))
		}
	}
}

// WithPopular 覆盖热门榜参数，<= 0 的值保持默认。
func WithPopular(minCount, limit int) Option {
	return func(s *Service) {
		if minCount > 0 {
			s.minCount = minCount
		}
		if limit > 0 {
			s.popularLimit = limit
		}
	}
}

// WithMaxK 限制单次请求的推荐数量，0 表示不限制。
func WithMaxK(maxK int) Option {
	return func(s *Service) {
		if maxK >= 0 {
			s.maxK = maxK
		}
	}
}

// WithPostPipeline 设置召回之后的后处理 Pipeline（过滤/重排/截断）。
// 降级结果同样经过后处理，此时请求级 Label fallback 已写入，表达式可用 has(rctx.labels.fallback) 判断。
func WithPostPipeline(p *pipeline.Pipeline) Option {
	return func(s *Service) { s.post = p }
}

// Service 是推荐服务。
type Service struct {
	catalog    *catalog.Catalog
	retrievers map[core.Strategy]recall.Retriever
	popular    *recall.Popular
	post       *pipeline.Pipeline
	randSource RandSource

	minCount     int
	popularLimit int
	maxK         int
}

// New 构建推荐服务。knn/svd 可以为 nil，对应策略的请求会返回空结果。
func New(c *catalog.Catalog, knn core.NeighborhoodModel, svd core.LatentFactorModel, opts ...Option) *Service {
	cfg := &core.DefaultRecallConfig{}
	s := &Service{
		catalog:      c,
		retrievers:   make(map[core.Strategy]recall.Retriever, 2),
		randSource:   defaultRandSource,
		minCount:     cfg.DefaultMinCount(),
		popularLimit: cfg.DefaultPopularLimit(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if knn != nil {
		s.retrievers[core.StrategyNeighborhood] = recall.NewNeighborhood(c, knn)
	}
	if svd != nil {
		s.retrievers[core.StrategyLatentFactor] = recall.NewLatentFactor(c, svd)
	}
	s.popular = &recall.Popular{Catalog: c, MinCount: s.minCount, Limit: s.popularLimit}
	return s
}

func defaultRandSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Catalog 返回服务使用的目录。
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// PopularRanker 返回降级使用的热门召回源。
func (s *Service) PopularRanker() *recall.Popular { return s.popular }

// Recommend 返回与 req.Title 相似的至多 req.K 部电影。
//
// 只有 ctx 被取消时才返回错误，其余情况都降级为空结果或热门随机结果。
func (s *Service) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reqID := logging.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = logging.NewRequestID()
		ctx = logging.ContextWithRequestID(ctx, reqID)
	}
	resp := &Response{Items: []*core.Item{}, RequestID: reqID}

	strategy, ok := core.ParseStrategy(req.Strategy)
	if !ok {
		logging.Ctx(ctx).Debug().Str("strategy", req.Strategy).Msg("unknown strategy")
		metrics.RecordRecommend("", metrics.OutcomeEmpty, 0, time.Since(start))
		return resp, nil
	}
	resp.Strategy = strategy.String()

	retriever, ok := s.retrievers[strategy]
	if !ok || req.K <= 0 {
		metrics.RecordRecommend(strategy.String(), metrics.OutcomeEmpty, 0, time.Since(start))
		return resp, nil
	}
	movie, ok := s.catalog.FindByTitle(req.Title)
	if !ok {
		logging.Ctx(ctx).Debug().Str("title", req.Title).Msg("title not in catalog")
		metrics.RecordRecommend(strategy.String(), metrics.OutcomeEmpty, 0, time.Since(start))
		return resp, nil
	}

	k := req.K
	if s.maxK > 0 && k > s.maxK {
		k = s.maxK
	}
	rctx := &core.RecommendContext{
		RequestID: reqID,
		Strategy:  strategy,
		Movie:     movie,
		K:         k,
		Params:    req.Params,
	}

	outcome := metrics.OutcomeOK
	items, err := retriever.Retrieve(ctx, movie, k)
	switch {
	case err == nil:
	case core.IsItemUnmapped(err):
		rctx.Rand = s.randSource()
		items = s.popular.Sample(rctx.Rand, k)
		lbl := utils.Label{Value: strategy.String(), Source: utils.SourceService}
		rctx.PutLabel(LabelFallback, lbl)
		for _, it := range items {
			it.PutLabel(LabelFallback, lbl)
		}
		outcome = metrics.OutcomeFallback
		logging.Ctx(ctx).Debug().
			Int64("movie_id", movie.ID).
			Str("strategy", strategy.String()).
			Int("k", k).
			Int("sampled", len(items)).
			Msg("movie not in trained model, using popular fallback")
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		// Retriever 只会因为 ctx 或未映射失败，这里按空结果处理
		logging.Ctx(ctx).Warn().Err(err).Str("strategy", strategy.String()).Msg("retrieve failed")
		metrics.RecordRecommend(strategy.String(), metrics.OutcomeEmpty, 0, time.Since(start))
		return resp, nil
	}

	if s.post.Len() > 0 {
		processed, err := s.post.Run(ctx, rctx, items)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logging.Ctx(ctx).Warn().Err(err).Str("pipeline", s.post.Name).Msg("post pipeline failed, returning raw items")
		} else {
			items = processed
		}
	}

	if items != nil {
		resp.Items = items
	}
	_, resp.Fallback = rctx.GetLabel(LabelFallback)
	metrics.RecordRecommend(strategy.String(), outcome, len(resp.Items), time.Since(start))
	return resp, nil
}

// Popular 返回热门榜前 limit 个（limit <= 0 或超过榜单长度时返回整个榜单）。
func (s *Service) Popular(ctx context.Context, limit int) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.popular.Recall(ctx, &core.RecommendContext{K: limit})
}
