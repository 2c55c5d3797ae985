package recall

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"sync"

	"github.com/rushteam/reckit-movies/catalog"
	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/pipeline"
	"github.com/rushteam/reckit-movies/pkg/utils"
)

// DefaultPopularKey 是热门榜在 KeyValueStore 中的默认有序集合 key。
const DefaultPopularKey = "popular:movies"

// Popular 是热门召回源，也是近邻/隐向量召回失败时的降级来源。
//
// 排序规则：
//   - 丢弃评分次数 < MinCount 的电影
//   - 按平均评分降序，相同均值按电影 ID 升序
//   - 取前 Limit 个
//
// 评分表加载后不再变化，默认榜单只计算一次并缓存。
// Popular 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Popular struct {
	Catalog  *catalog.Catalog
	MinCount int // 默认 20
	Limit    int // 默认 100

	once   sync.Once
	cached []*core.Item
}

func NewPopular(c *catalog.Catalog) *Popular {
	cfg := &core.DefaultRecallConfig{}
	return &Popular{Catalog: c, MinCount: cfg.DefaultMinCount(), Limit: cfg.DefaultPopularLimit()}
}

func (r *Popular) Name() string        { return "recall.popular" }
func (r *Popular) Kind() pipeline.Kind { return pipeline.KindRecall }

// TopPopular 计算热门榜。每次调用都返回新构建的记录，调用方可以自由修改。
func (r *Popular) TopPopular(minCount, limit int) []*core.Item {
	if limit <= 0 {
		return nil
	}
	type candidate struct {
		id  int64
		agg core.Aggregate
	}
	aggs := r.Catalog.Aggregates()
	cands := make([]candidate, 0, len(aggs))
	for id, agg := range aggs {
		if agg.Count < minCount {
			continue
		}
		cands = append(cands, candidate{id: id, agg: agg})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].agg.Mean != cands[j].agg.Mean {
			return cands[i].agg.Mean > cands[j].agg.Mean
		}
		return cands[i].id < cands[j].id
	})

	if len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]*core.Item, 0, len(cands))
	for _, c := range cands {
		it, ok := r.Catalog.Record(c.id)
		if !ok {
			// 有评分但不在电影表中
			continue
		}
		it.Score = c.agg.Mean
		it.PutLabel(LabelRecallSource, utils.Label{Value: "popular", Source: utils.SourceRecall})
		out = append(out, it)
	}
	return out
}

// List 返回默认参数（MinCount/Limit）下的热门榜副本。
func (r *Popular) List() []*core.Item {
	src := r.list()
	out := make([]*core.Item, len(src))
	for i, it := range src {
		out[i] = it.Clone()
	}
	return out
}

func (r *Popular) list() []*core.Item {
	r.once.Do(func() {
		minCount, limit := r.MinCount, r.Limit
		if limit <= 0 {
			limit = (&core.DefaultRecallConfig{}).DefaultPopularLimit()
		}
		r.cached = r.TopPopular(minCount, limit)
	})
	return r.cached
}

// Sample 从默认热门榜中无放回地均匀抽取 min(k, 榜单长度) 个，按抽取顺序返回副本。
// rng 为 nil 时使用一个临时随机源。
func (r *Popular) Sample(rng *rand.Rand, k int) []*core.Item {
	src := r.list()
	n := min(k, len(src))
	if n <= 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	// 部分 Fisher–Yates：只打乱前 n 个位置
	idx := make([]int, len(src))
	for i := range idx {
		idx[i] = i
	}
	out := make([]*core.Item, 0, n)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, src[idx[i]].Clone())
	}
	return out
}

// Recall 实现 Source 接口：rctx.K > 0 时返回前 K 个，否则返回整个默认榜单。
func (r *Popular) Recall(_ context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	items := r.List()
	if rctx != nil && rctx.K > 0 && rctx.K < len(items) {
		items = items[:rctx.K]
	}
	return items, nil
}

// Process 实现 Node 接口，直接调用 Recall
func (r *Popular) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Publish 把默认热门榜写入有序集合（score 为平均评分），供其他服务按 ZRange 读取。
// 写入前会清空旧榜单。
func (r *Popular) Publish(ctx context.Context, kv core.KeyValueStore, key string) (int, error) {
	if key == "" {
		key = DefaultPopularKey
	}
	if err := kv.Delete(ctx, key); err != nil {
		return 0, fmt.Errorf("clear %s: %w", key, err)
	}
	items := r.list()
	for _, it := range items {
		if err := kv.ZAdd(ctx, key, it.Score, strconv.FormatInt(it.ID, 10)); err != nil {
			return 0, fmt.Errorf("zadd %s: %w", key, err)
		}
	}
	return len(items), nil
}

// Published 读取已发布的热门榜（前 limit 个），并通过目录补全。
// limit <= 0 时读取全部；无法解析或不在目录中的成员被跳过。
func (r *Popular) Published(ctx context.Context, kv core.KeyValueStore, key string, limit int) ([]*core.Item, error) {
	if key == "" {
		key = DefaultPopularKey
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	members, err := kv.ZRange(ctx, key, 0, stop)
	if err != nil {
		return nil, fmt.Errorf("zrange %s: %w", key, err)
	}
	out := make([]*core.Item, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		it, ok := r.Catalog.Record(id)
		if !ok {
			continue
		}
		if score, err := kv.ZScore(ctx, key, m); err == nil {
			it.Score = score
		}
		it.PutLabel(LabelRecallSource, utils.Label{Value: "popular", Source: utils.SourceRecall})
		out = append(out, it)
	}
	return out, nil
}

var (
	_ Source        = (*Popular)(nil)
	_ pipeline.Node = (*Popular)(nil)
)
