package metrics_server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"yatube-post-service/internal/infrastructure/logger"
	"yatube-post-service/internal/infrastructure/outbound/metrics/prometheus"
)

func TestMetricsServer_Handler(t *testing.T) {
	prometheus.NewPrometheusMetricsProvider().SetServiceHealth(true)
	h := NewMetricsServer("localhost", 0, logger.New("test")).Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "service_health")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
