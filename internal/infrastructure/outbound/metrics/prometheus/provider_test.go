package prometheus_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	metrics "yatube-post-service/internal/infrastructure/outbound/metrics/prometheus"
)

func TestPrometheusMetricsProvider(t *testing.T) {
	provider := metrics.NewPrometheusMetricsProvider()

	before := testutil.ToFloat64(metrics.PostOperationsTotal.WithLabelValues("create", "true"))
	provider.IncrementPostOperations("create", true)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PostOperationsTotal.WithLabelValues("create", "true")))

	before = testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/", "200"))
	provider.IncrementHTTPRequests("GET", "/", "200")
	provider.RecordHTTPRequestDuration("GET", "/", "200", 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/", "200")))

	before = testutil.ToFloat64(metrics.DatabaseQueriesTotal.WithLabelValues("post_list", "false"))
	provider.IncrementDatabaseQueries("post_list", false)
	provider.RecordDatabaseQueryDuration("post_list", time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DatabaseQueriesTotal.WithLabelValues("post_list", "false")))

	provider.SetServiceHealth(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ServiceHealth))
	provider.SetServiceHealth(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.ServiceHealth))
}
