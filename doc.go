// Package movierec 是一个基于物品相似度的电影推荐引擎。
//
// 设计要点：
// - 两种召回策略：预训练物品近邻（knn）与矩阵分解隐向量余弦相似度（mf）
// - 降级：查询电影不在模型索引空间时，从热门榜随机无放回抽样
// - Pipeline 后处理：过滤 / 多样性 / 截断通过 Node 串联，可由 YAML 配置
// - Labels 全链路透传，用于 explain 与观测
package movierec

import (
	"github.com/rushteam/reckit-movies/pipeline"
	"github.com/rushteam/reckit-movies/service"
)

// 轻量 facade：便于直接 import 根包使用核心抽象。
type (
	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
	Kind     = pipeline.Kind

	Service  = service.Service
	Request  = service.Request
	Response = service.Response
)

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// NewService 见 service.New。
var NewService = service.New
