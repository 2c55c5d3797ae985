package recall

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/reckit-movies/catalog/catalogtest"
	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/store"
)

func ids(items []*core.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestPopular_TopPopular(t *testing.T) {
	c := catalogtest.NewBuilder().
		Add(catalogtest.Movie(1, "A"), 50, 4.2).
		Add(catalogtest.Movie(2, "B"), 19, 4.9).
		Add(catalogtest.Movie(3, "C"), 20, 4.5).
		Build()
	p := NewPopular(c)

	got := p.TopPopular(20, 2)
	assert.Equal(t, []int64{3, 1}, ids(got))

	top := p.TopPopular(20, 10)
	require.Len(t, top, 2)
	assert.Equal(t, "C", top[0].Title)
	require.NotNil(t, top[0].AvgRating)
	assert.Equal(t, 4.5, *top[0].AvgRating)
	assert.Equal(t, 20, top[0].NumRatings)
	assert.Equal(t, "popular", top[0].Labels[LabelRecallSource].Value)

	assert.Empty(t, p.TopPopular(20, 0))
	assert.Equal(t, []int64{2, 3, 1}, ids(p.TopPopular(0, 10)))
}

func TestPopular_TieBreakByID(t *testing.T) {
	c := catalogtest.NewBuilder().
		Add(catalogtest.Movie(9, "Nine"), 30, 4.0).
		Add(catalogtest.Movie(3, "Three"), 25, 4.0).
		Add(catalogtest.Movie(5, "Five"), 40, 4.0).
		Build()
	assert.Equal(t, []int64{3, 5, 9}, ids(NewPopular(c).TopPopular(20, 10)))
}

func TestPopular_SkipsRatingsWithoutMovie(t *testing.T) {
	c := catalogtest.NewBuilder().
		Add(catalogtest.Movie(1, "A"), 30, 3.0).
		Ratings(catalogtest.RatingsWithMean(404, 30, 5.0)...).
		Build()
	assert.Empty(t, ids(NewPopular(c).TopPopular(20, 1)))
	assert.Equal(t, []int64{1}, ids(NewPopular(c).TopPopular(20, 2)))
}

func TestPopular_DefaultListSortedAndQualified(t *testing.T) {
	c := catalogtest.PopularCatalog(150, 10)
	p := NewPopular(c)

	list := p.List()
	require.Len(t, list, 100)
	for i, it := range list {
		assert.GreaterOrEqual(t, it.NumRatings, 20)
		assert.Less(t, it.ID, int64(1000), "cold movies must not qualify")
		if i > 0 {
			assert.GreaterOrEqual(t, list[i-1].Score, it.Score)
		}
	}

	// List 返回副本
	list[0].Title = "mutated"
	assert.NotEqual(t, "mutated", p.List()[0].Title)
}

func TestPopular_Sample(t *testing.T) {
	p := NewPopular(catalogtest.PopularCatalog(150, 0))
	allowed := make(map[int64]bool)
	for _, it := range p.List() {
		allowed[it.ID] = true
	}

	rng := rand.New(rand.NewPCG(1, 2))
	got := p.Sample(rng, 10)
	require.Len(t, got, 10)
	seen := make(map[int64]bool)
	for _, it := range got {
		assert.True(t, allowed[it.ID], "sample must come from the top-100 list")
		assert.False(t, seen[it.ID], "no duplicates")
		seen[it.ID] = true
	}

	// 相同种子可复现
	again := p.Sample(rand.New(rand.NewPCG(1, 2)), 10)
	assert.Equal(t, ids(got), ids(again))

	// k 超过榜单长度时返回整个榜单的一个排列
	all := p.Sample(rng, 500)
	assert.Len(t, all, 100)
	assert.ElementsMatch(t, ids(p.List()), ids(all))

	assert.Empty(t, p.Sample(rng, 0))
	assert.Len(t, p.Sample(nil, 3), 3)
}

func TestPopular_SampleVariesAcrossSources(t *testing.T) {
	p := NewPopular(catalogtest.PopularCatalog(150, 0))
	first := ids(p.Sample(rand.New(rand.NewPCG(1, 1)), 10))
	differs := false
	for seed := uint64(2); seed < 10; seed++ {
		if !assert.ObjectsAreEqual(first, ids(p.Sample(rand.New(rand.NewPCG(seed, seed)), 10))) {
			differs = true
			break
		}
	}
	assert.True(t, differs)
}

func TestPopular_Recall(t *testing.T) {
	p := NewPopular(catalogtest.PopularCatalog(30, 0))
	items, err := p.Recall(context.Background(), &core.RecommendContext{K: 5})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(items))

	items, err = p.Process(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, items, 30)
}

func TestPopular_PublishAndRead(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	defer mem.Close()

	p := NewPopular(catalogtest.PopularCatalog(5, 2))
	require.NoError(t, mem.ZAdd(ctx, DefaultPopularKey, 9, "1000"))

	n, err := p.Publish(ctx, mem, "")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	got, err := p.Published(ctx, mem, "", 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
	assert.InDelta(t, 4.99, got[0].Score, 1e-9)

	all, err := p.Published(ctx, mem, DefaultPopularKey, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5, "stale members are cleared on publish")
}
