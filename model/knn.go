package model

import (
	"fmt"
	"sort"

	"github.com/rushteam/reckit-movies/core"
)

// KNN 是物品-物品近邻模型：sim[i][j] 为内部索引 i 与 j 的相似度（训练时计算好）。
//
// 近邻查询不包含物品自身，与 LatentFactor 召回的自排除保持一致。
type KNN struct {
	*IndexMap
	sim [][]float64
}

// NewKNN 校验相似度矩阵为 n×n（n 为训练集电影数）。
func NewKNN(rawIDs []int64, sim [][]float64) (*KNN, error) {
	idx, err := NewIndexMap(rawIDs)
	if err != nil {
		return nil, err
	}
	if len(sim) != idx.Len() {
		return nil, invalidArtifact("knn: similarity matrix has %d rows, want %d", len(sim), idx.Len())
	}
	for i, row := range sim {
		if len(row) != idx.Len() {
			return nil, invalidArtifact("knn: similarity row %d has %d columns, want %d", i, len(row), idx.Len())
		}
	}
	return &KNN{IndexMap: idx, sim: sim}, nil
}

// NearestNeighbors 返回与 inner 最相似的 k 个内部索引。
// 按相似度降序，相同相似度保持内部索引升序（稳定排序）。
func (m *KNN) NearestNeighbors(inner, k int) []int {
	if k <= 0 || inner < 0 || inner >= len(m.sim) {
		return nil
	}
	row := m.sim[inner]
	others := make([]int, 0, len(row)-1)
	for j := range row {
		if j != inner {
			others = append(others, j)
		}
	}
	sort.SliceStable(others, func(a, b int) bool {
		return row[others[a]] > row[others[b]]
	})
	if len(others) > k {
		others = others[:k]
	}
	return others
}

// Similarity 返回两个内部索引之间的相似度。
func (m *KNN) Similarity(i, j int) float64 {
	return m.sim[i][j]
}

var _ core.NeighborhoodModel = (*KNN)(nil)

func invalidArtifact(format string, args ...any) error {
	return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: "+fmt.Sprintf(format, args...))
}
