package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRecommend(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("knn", OutcomeFallback))
	RecordRecommend("knn", OutcomeFallback, 10, 2*time.Millisecond)
	after := testutil.ToFloat64(RecommendRequests.WithLabelValues("knn", OutcomeFallback))
	assert.Equal(t, before+1, after)

	before = testutil.ToFloat64(RecommendRequests.WithLabelValues("unknown", OutcomeEmpty))
	RecordRecommend("", OutcomeEmpty, 0, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(RecommendRequests.WithLabelValues("unknown", OutcomeEmpty)))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("/api/v1/popular", "200"))
	RecordHTTPRequest("/api/v1/popular", 200, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("/api/v1/popular", "200")))

	before = testutil.ToFloat64(HTTPRequests.WithLabelValues("unmatched", "404"))
	RecordHTTPRequest("", 404, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("unmatched", "404")))
}

func TestRecordLoaded(t *testing.T) {
	RecordLoaded(3883, 3706, 3706)
	assert.Equal(t, 3883.0, testutil.ToFloat64(CatalogMovies))
	assert.Equal(t, 3706.0, testutil.ToFloat64(ModelItems.WithLabelValues("mf")))
}
