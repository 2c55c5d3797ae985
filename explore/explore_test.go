package explore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/reckit-movies/catalog/catalogtest"
)

func newTestExplorer() *Explorer {
	c := catalogtest.NewBuilder().
		Add(catalogtest.Movie(1, "Toy Story (1995)", "Animation", "Comedy"), 120, 4.2).
		Add(catalogtest.Movie(2, "Heat (1995)", "Action", "Crime"), 150, 4.5).
		Add(catalogtest.Movie(3, "Grumpier Old Men (1995)", "Comedy"), 30, 3.0).
		Add(catalogtest.Movie(4, "Sabrina (1995)", "Comedy", "Romance"), 100, 4.5).
		Add(catalogtest.Movie(5, "Dracula (1995)", "Horror"), 99, 5.0).
		Build()
	return New(c)
}

func TestGenreDistribution(t *testing.T) {
	got := newTestExplorer().GenreDistribution()
	require.NotEmpty(t, got)
	assert.Equal(t, GenreCount{Genre: "Comedy", Count: 3}, got[0])
	// 同数量按名称升序
	assert.Equal(t, "Action", got[1].Genre)
	assert.Len(t, got, 6)
}

func TestMostRatedGenres(t *testing.T) {
	e := newTestExplorer()
	got := e.MostRatedGenres(0)
	require.Len(t, got, 5)
	assert.Equal(t, GenreCount{Genre: "Comedy", Count: 250}, got[0])
	assert.Equal(t, "Action", got[1].Genre)
	assert.Equal(t, "Crime", got[2].Genre)

	assert.Len(t, e.MostRatedGenres(2), 2)
}

func TestGenreMeanRatings(t *testing.T) {
	e := newTestExplorer()
	all := e.GenreMeanRatings()
	require.Len(t, all, 6)
	assert.Equal(t, "Horror", all[0].Genre)
	assert.InDelta(t, 5.0, all[0].Mean, 1e-9)

	// Comedy: (120*4.2 + 30*3.0 + 100*4.5) / 250
	for _, g := range all {
		if g.Genre == "Comedy" {
			assert.InDelta(t, (120*4.2+30*3.0+100*4.5)/250, g.Mean, 1e-9)
			assert.Equal(t, 250, g.Count)
		}
	}

	high := e.HighestRatedGenres(0)
	assert.Equal(t, []string{"Horror", "Action", "Crime"}, genres(high))

	low := e.LowestRatedGenres(0)
	require.Len(t, low, 3)
	assert.Equal(t, "Animation", low[1].Genre)
	assert.Equal(t, "Comedy", low[2].Genre)
}

func TestTopRatedMovies(t *testing.T) {
	e := newTestExplorer()
	got := e.TopRatedMovies(0, 0)
	// 5 只有 99 次评分被排除；2 与 4 同均值按 ID 升序
	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)
	assert.Equal(t, "Toy Story (1995)", got[2].Title)

	got = e.TopRatedMovies(10, 20)
	assert.Len(t, got, 5)
	assert.Equal(t, int64(5), got[0].ID)
}

func TestClampTopK(t *testing.T) {
	assert.Equal(t, 10, ClampTopK(0))
	assert.Equal(t, 5, ClampTopK(1))
	assert.Equal(t, 25, ClampTopK(25))
	assert.Equal(t, 50, ClampTopK(500))
}

func genres(rs []GenreRating) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Genre)
	}
	return out
}
