package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/reckit-movies/core"
)

func TestIndexMap(t *testing.T) {
	m, err := NewIndexMap([]int64{10, 30, 20})
	require.NoError(t, err)

	i, ok := m.ToInner(30)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = m.ToInner(99)
	assert.False(t, ok)

	raw, ok := m.ToRaw(2)
	require.True(t, ok)
	assert.Equal(t, int64(20), raw)

	_, ok = m.ToRaw(3)
	assert.False(t, ok)
	_, ok = m.ToRaw(-1)
	assert.False(t, ok)
	assert.Equal(t, 3, m.Len())

	_, err = NewIndexMap([]int64{1, 2, 1})
	assert.True(t, core.IsInvalidInput(err))
}

func TestKNN_NearestNeighbors(t *testing.T) {
	knn, err := NewKNN([]int64{1, 2, 3, 4}, [][]float64{
		{1.0, 0.2, 0.9, 0.2},
		{0.2, 1.0, 0.1, 0.3},
		{0.9, 0.1, 1.0, 0.5},
		{0.2, 0.3, 0.5, 1.0},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		inner int
		k     int
		want  []int
	}{
		{"closest first", 0, 2, []int{2, 1}},
		{"ties keep index order", 0, 3, []int{2, 1, 3}},
		{"k larger than space", 3, 10, []int{2, 1, 0}},
		{"k zero", 0, 0, nil},
		{"out of range", 7, 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := knn.NearestNeighbors(tt.inner, tt.k)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, tt.inner)
		})
	}
}

func TestNewKNN_Validation(t *testing.T) {
	_, err := NewKNN([]int64{1, 2}, [][]float64{{1, 0}})
	assert.True(t, core.IsInvalidInput(err))

	_, err = NewKNN([]int64{1, 2}, [][]float64{{1, 0}, {0}})
	assert.True(t, core.IsInvalidInput(err))
}

func TestSVD(t *testing.T) {
	svd, err := NewSVD([]int64{5, 6}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, svd.Dim())
	assert.Equal(t, []float64{4, 5, 6}, svd.Factors(1))
	assert.Nil(t, svd.Factors(2))

	_, err = NewSVD([]int64{5, 6}, [][]float64{{1, 2, 3}, {4, 5}})
	assert.True(t, core.IsInvalidInput(err))
}

func TestCosine(t *testing.T) {
	u := []float64{0.3, -1.2, 2.5}
	assert.InDelta(t, 1.0, Cosine(u, u), 1e-12)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, -1.0, Cosine([]float64{1, 1}, []float64{-2, -2}), 1e-12)
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float64{1}, []float64{1, 1}))
	assert.False(t, math.IsNaN(Cosine([]float64{0}, []float64{0})))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	knnPath := filepath.Join(dir, "knn.json")
	svdPath := filepath.Join(dir, "svd.json")
	require.NoError(t, os.WriteFile(knnPath, []byte(`{"raw_ids":[1,2],"sim":[[1,0.5],[0.5,1]]}`), 0o600))
	require.NoError(t, os.WriteFile(svdPath, []byte(`{"raw_ids":[1,2],"qi":[[0.1,0.2],[0.3,0.4]]}`), 0o600))

	knn, err := LoadKNNFile(knnPath)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, knn.NearestNeighbors(0, 5))

	svd, err := LoadSVDFile(svdPath)
	require.NoError(t, err)
	assert.Equal(t, 2, svd.Dim())

	_, err = LoadKNNFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = DecodeSVD([]byte(`{"raw_ids":[1],"qi":`))
	assert.True(t, core.IsInvalidInput(err))
}

func TestEncodeDecodeArtifacts(t *testing.T) {
	knn, err := NewKNN([]int64{7, 8}, [][]float64{{1, 0.4}, {0.4, 1}})
	require.NoError(t, err)
	data, err := EncodeKNN(knn)
	require.NoError(t, err)
	gotKNN, err := DecodeKNN(data)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, gotKNN.RawIDs())
	assert.Equal(t, 0.4, gotKNN.Similarity(0, 1))

	svd, err := NewSVD([]int64{7, 8}, [][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	data, err = EncodeSVD(svd)
	require.NoError(t, err)
	gotSVD, err := DecodeSVD(data)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, gotSVD.Factors(1))
}
