// Package metrics 定义推荐服务的 Prometheus 指标，通过 /metrics 暴露。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 推荐结果类型
const (
	OutcomeOK       = "ok"       // 模型召回成功
	OutcomeFallback = "fallback" // 电影不在模型中，热门降级
	OutcomeEmpty    = "empty"    // 未知策略/未知标题/k <= 0
)

var (
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_recommend_requests_total",
			Help: "Total number of recommendation requests by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"strategy"},
	)

	RecommendItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommend_items",
			Help:    "Number of records returned per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		},
		[]string{"strategy"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_http_requests_total",
			Help: "Total number of HTTP requests by route pattern and status code",
		},
		[]string{"route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)

	ModelItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movierec_model_items",
			Help: "Number of items in each trained model's index space",
		},
		[]string{"model"},
	)
)

// RecordRecommend 记录一次推荐请求。
func RecordRecommend(strategy, outcome string, items int, duration time.Duration) {
	if strategy == "" {
		strategy = "unknown"
	}
	RecommendRequests.WithLabelValues(strategy, outcome).Inc()
	RecommendDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	RecommendItems.WithLabelValues(strategy).Observe(float64(items))
}

// RecordHTTPRequest 记录一次 HTTP 请求；route 使用路由模板而不是原始路径，避免标签基数爆炸。
func RecordHTTPRequest(route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordLoaded 记录启动时加载的数据规模。
func RecordLoaded(movies, knnItems, svdItems int) {
	CatalogMovies.Set(float64(movies))
	ModelItems.WithLabelValues("knn").Set(float64(knnItems))
	ModelItems.WithLabelValues("mf").Set(float64(svdItems))
}
