package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/pkg/utils"
)

func movie(id int64, genres ...string) *core.Item {
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

func TestTopNNode(t *testing.T) {
	items := []*core.Item{movie(1), movie(2), movie(3)}
	tests := []struct {
		name string
		node TopNNode
		rctx *core.RecommendContext
		want []int64
	}{
		{"truncate", TopNNode{N: 2}, nil, []int64{1, 2}},
		{"no limit", TopNNode{}, nil, []int64{1, 2, 3}},
		{"n larger than items", TopNNode{N: 10}, nil, []int64{1, 2, 3}},
		{"request k", TopNNode{N: 3, UseRequestK: true}, &core.RecommendContext{K: 1}, []int64{1}},
		{"request k unset", TopNNode{N: 2, UseRequestK: true}, &core.RecommendContext{}, []int64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.node.Process(context.Background(), tt.rctx, items)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(out))
		})
	}
}

func TestDiversity(t *testing.T) {
	items := []*core.Item{
		movie(1, "Drama"), movie(2, "Drama", "War"), movie(3, "Comedy"),
		movie(4, "Drama"), movie(5), movie(6, "Comedy"),
	}

	out, err := (&Diversity{}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 5, 2, 4, 6}, ids(out))

	out, err = (&Diversity{MaxPerGenre: 2}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 5, 6, 4}, ids(out))
}

func TestDiversity_LabelKey(t *testing.T) {
	a, b := movie(1, "Drama"), movie(2, "Comedy")
	a.PutLabel("cluster", utils.Label{Value: "x"})
	b.PutLabel("cluster", utils.Label{Value: "x"})

	out, err := (&Diversity{LabelKey: "cluster"}).Process(context.Background(), nil, []*core.Item{a, b, movie(3, "Drama")})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 2}, ids(out))
}
