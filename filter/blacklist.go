package filter

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rushteam/reckit-movies/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉黑名单中的电影。
// 黑名单来源：内存 ID 列表，以及（可选）Store 中 Key 对应的 JSON 数组，例如 [1, 2, 3]。
type BlacklistFilter struct {
	ItemIDs map[int64]struct{}

	Store core.Store
	Key   string
}

// NewBlacklistFilter 创建一个黑名单过滤器；store 为 nil 时只使用内存列表。
func NewBlacklistFilter(itemIDs []int64, store core.Store, key string) *BlacklistFilter {
	ids := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		ids[id] = struct{}{}
	}
	return &BlacklistFilter{ItemIDs: ids, Store: store, Key: key}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if _, ok := f.ItemIDs[item.ID]; ok {
		return true, nil
	}

	if f.Store == nil || f.Key == "" {
		return false, nil
	}
	blacklist, err := f.load(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range blacklist {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *BlacklistFilter) load(ctx context.Context) ([]int64, error) {
	data, err := f.Store.Get(ctx, f.Key)
	if core.IsStoreNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blacklist %s: %w", f.Key, err)
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode blacklist %s: %w", f.Key, err)
	}
	return ids, nil
}
