package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/store"
)

func item(id int64, genres ...string) *core.Item {
	it := core.NewItem(id)
	it.Genres = genres
	return it
}

func ids(items []*core.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestBlacklistFilter(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	defer mem.Close()
	require.NoError(t, mem.Set(ctx, "blacklist", []byte(`[3, 4]`)))

	node := &FilterNode{Filters: []Filter{NewBlacklistFilter([]int64{1}, mem, "blacklist")}}
	out, err := node.Process(ctx, nil, []*core.Item{item(1), item(2), item(3), nil, item(5)})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, ids(out))

	// key 不存在时只使用内存列表
	f := NewBlacklistFilter([]int64{1}, mem, "missing")
	drop, err := f.ShouldFilter(ctx, nil, item(3))
	require.NoError(t, err)
	assert.False(t, drop)
}

func TestBlacklistFilter_BadStoreDataKeepsItem(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	defer mem.Close()
	require.NoError(t, mem.Set(ctx, "blacklist", []byte(`not json`)))

	f := NewBlacklistFilter(nil, mem, "blacklist")
	_, err := f.ShouldFilter(ctx, nil, item(3))
	assert.Error(t, err)

	out, err := (&FilterNode{Filters: []Filter{f}}).Process(ctx, nil, []*core.Item{item(3)})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(out))
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter(`!("Horror" in item.genres)`)
	require.NoError(t, err)
	assert.Equal(t, "filter.expr", f.Name())

	node := &FilterNode{Filters: []Filter{f}}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, []*core.Item{
		item(1, "Comedy"), item(2, "Horror", "Thriller"), item(3),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(out))

	_, err = NewExprFilter(`item.genres ==`)
	assert.Error(t, err)
}

func TestExprFilter_UsesRequestParams(t *testing.T) {
	f, err := NewExprFilter(`item.num_ratings >= rctx.params.min_ratings`)
	require.NoError(t, err)

	a, b := item(1), item(2)
	a.NumRatings, b.NumRatings = 10, 80
	rctx := &core.RecommendContext{Params: map[string]any{"min_ratings": 50}}
	out, err := (&FilterNode{Filters: []Filter{f}}).Process(context.Background(), rctx, []*core.Item{a, b})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(out))
}

func TestFilterNode_NoFilters(t *testing.T) {
	items := []*core.Item{item(1)}
	out, err := (&FilterNode{}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, items, out)
}
