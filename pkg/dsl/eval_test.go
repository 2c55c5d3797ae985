package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/pkg/utils"
)

func testItem() *core.Item {
	avg := 4.2
	it := core.NewItem(7)
	it.Title = "Heat (1995)"
	it.Genres = []string{"Action", "Crime"}
	it.AvgRating = &avg
	it.NumRatings = 120
	it.Year = "1995"
	it.Score = 0.83
	it.PutLabel("recall_source", utils.Label{Value: "knn", Source: "recall"})
	return it
}

func TestProgram_Eval(t *testing.T) {
	rctx := &core.RecommendContext{Strategy: core.StrategyNeighborhood, K: 5, Movie: core.Movie{ID: 1}}

	tests := []struct {
		expr string
		want bool
	}{
		{`item.avg_rating >= 4.0`, true},
		{`item.num_ratings > 200`, false},
		{`"Crime" in item.genres`, true},
		{`"Comedy" in item.genres`, false},
		{`item.year >= "1990" && item.score > 0.8`, true},
		{`item.title.contains("Heat")`, true},
		{`label.recall_source == "knn"`, true},
		{`rctx.strategy == "knn" && rctx.movie_id != item.id`, true},
		{`rctx.k == 5`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Compile(tt.expr)
			require.NoError(t, err)
			got, err := p.Eval(testItem(), rctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProgram_RequestLabels(t *testing.T) {
	p, err := Compile(`has(rctx.labels.fallback) && rctx.labels.fallback == "mf"`)
	require.NoError(t, err)

	rctx := &core.RecommendContext{Strategy: core.StrategyLatentFactor}
	got, err := p.Eval(testItem(), rctx)
	require.NoError(t, err)
	assert.False(t, got)

	rctx.PutLabel("fallback", utils.Label{Value: "mf", Source: utils.SourceService})
	lbl, ok := rctx.GetLabel("fallback")
	require.True(t, ok)
	assert.Equal(t, "mf", lbl.Value)

	got, err = p.Eval(testItem(), rctx)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestProgram_NullRating(t *testing.T) {
	it := testItem()
	it.AvgRating = nil
	ok, err := NewEval(it, nil).Evaluate(`item.avg_rating == null`)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProgram_Errors(t *testing.T) {
	_, err := Compile(`item.avg_rating >=`)
	assert.Error(t, err)

	p, err := Compile(`item.title`)
	require.NoError(t, err)
	_, err = p.Eval(testItem(), nil)
	assert.Error(t, err, "non-boolean result")

	ok, err := NewEval(testItem(), nil).Evaluate("")
	require.NoError(t, err)
	assert.True(t, ok)
}
