package core

// RecallConfig 是召回相关的配置接口，用于提供默认值。
type RecallConfig interface {
	// DefaultMinCount 返回热门榜的最小评分次数
	DefaultMinCount() int

	// DefaultPopularLimit 返回热门榜长度（降级采样的候选池）
	DefaultPopularLimit() int

	// DefaultTopK 返回默认推荐数量
	DefaultTopK() int

	// MaxTopK 返回单次请求允许的最大推荐数量
	MaxTopK() int

	// DefaultExploreMinCount 返回探索页“高分电影”的最小评分次数
	DefaultExploreMinCount() int
}

// DefaultRecallConfig 是默认的召回配置实现。
type DefaultRecallConfig struct{}

func (c *DefaultRecallConfig) DefaultMinCount() int {
	return 20
}

func (c *DefaultRecallConfig) DefaultPopularLimit() int {
	return 100
}

func (c *DefaultRecallConfig) DefaultTopK() int {
	return 10
}

func (c *DefaultRecallConfig) MaxTopK() int {
	return 50
}

func (c *DefaultRecallConfig) DefaultExploreMinCount() int {
	return 100
}
