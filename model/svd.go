package model

import (
	"math"

	"github.com/rushteam/reckit-movies/core"
)

// SVD 是矩阵分解模型的物品侧：qi 每行是一个内部索引的隐向量，维度固定。
type SVD struct {
	*IndexMap
	qi  [][]float64
	dim int
}

func NewSVD(rawIDs []int64, qi [][]float64) (*SVD, error) {
	idx, err := NewIndexMap(rawIDs)
	if err != nil {
		return nil, err
	}
	if len(qi) != idx.Len() {
		return nil, invalidArtifact("svd: factor matrix has %d rows, want %d", len(qi), idx.Len())
	}
	dim := 0
	if len(qi) > 0 {
		dim = len(qi[0])
	}
	for i, row := range qi {
		if len(row) != dim {
			return nil, invalidArtifact("svd: factor row %d has dimension %d, want %d", i, len(row), dim)
		}
	}
	return &SVD{IndexMap: idx, qi: qi, dim: dim}, nil
}

func (m *SVD) Factors(inner int) []float64 {
	if inner < 0 || inner >= len(m.qi) {
		return nil
	}
	return m.qi[inner]
}

func (m *SVD) Dim() int { return m.dim }

var _ core.LatentFactorModel = (*SVD)(nil)

// Cosine 计算余弦相似度 dot(u,v) / (||u||·||v||)；任一向量为零向量时返回 0。
func Cosine(u, v []float64) float64 {
	if len(u) != len(v) {
		return 0
	}
	var dot, nu, nv float64
	for i := range u {
		dot += u[i] * v[i]
		nu += u[i] * u[i]
		nv += v[i] * v[i]
	}
	if nu == 0 || nv == 0 {
		return 0
	}
	return dot / (math.Sqrt(nu) * math.Sqrt(nv))
}
