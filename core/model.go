package core

// IndexMapper 是训练模型的 ID 映射：目录电影 ID（raw）<-> 模型内部连续索引（inner）。
//
// 不是每个目录电影都有内部索引：训练数据中没有出现的电影无法映射。
type IndexMapper interface {
	// ToInner 把目录电影 ID 转为内部索引，未映射时返回 false
	ToInner(rawID int64) (int, bool)

	// ToRaw 把内部索引转回目录电影 ID
	ToRaw(inner int) (int64, bool)

	// Len 返回内部索引空间大小
	Len() int
}

// NeighborhoodModel 是预训练的物品近邻模型。
//
// 实现：
//   - model.KNN（物品-物品相似度矩阵）
type NeighborhoodModel interface {
	IndexMapper

	// NearestNeighbors 返回与 inner 最相似的 k 个内部索引（最近的在前，不包含 inner 自身）
	NearestNeighbors(inner, k int) []int
}

// LatentFactorModel 是预训练的矩阵分解模型，每个内部索引对应一行物品隐向量。
//
// 实现：
//   - model.SVD
type LatentFactorModel interface {
	IndexMapper

	// Factors 返回内部索引对应的物品隐向量（只读，调用方不能修改）
	Factors(inner int) []float64

	// Dim 返回隐向量维度
	Dim() int
}
