package core

import "strings"

// Strategy 是推荐策略选择器。
type Strategy string

const (
	// StrategyNeighborhood 基于物品近邻模型（KNN）
	StrategyNeighborhood Strategy = "knn"
	// StrategyLatentFactor 基于矩阵分解隐向量（SVD）的余弦相似度
	StrategyLatentFactor Strategy = "mf"
)

// ParseStrategy 解析策略名称，兼容页面上展示的名称（"KNN" / "Matrix factorization"）。
// 无法识别时返回 false，调用方应返回空结果而不是报错。
func ParseStrategy(name string) (Strategy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "knn", "neighborhood", "item_knn":
		return StrategyNeighborhood, true
	case "mf", "svd", "matrix factorization", "matrix_factorization", "latent_factor":
		return StrategyLatentFactor, true
	default:
		return "", false
	}
}

func (s Strategy) String() string { return string(s) }
