// Copyright (C) 2025 Frank Liu
// Tests for the Prometheus exposition endpoint.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frank-liu/todo-app/services/backend/observability"
	"github.com/frank-liu/todo-app/services/backend/vitals"
)

func newMetricsRouter() (*gin.Engine, *observability.Metrics) {
	metrics := observability.NewMetrics()
	router := gin.New()
	router.GET("/metrics", RenderMetrics(metrics))
	return router, metrics
}

func TestRenderMetrics_TextExposition(t *testing.T) {
	router, metrics := newMetricsRouter()
	metrics.Record(vitals.WebVitalMetric{
		Type: vitals.TypeFCP, Value: 1200, Page: "homepage", DeviceType: "desktop",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	body := w.Body.String()
	assert.Contains(t, body, "web_vitals_fcp_seconds")
	assert.Contains(t, body, "web_vitals_fcp_current")
	assert.Contains(t, body, "web_vitals_measurements_total")
	assert.Contains(t, body, `page="homepage"`)
	assert.Contains(t, body, `device_type="desktop"`)
}

func TestRenderMetrics_IncludesRuntimeCollectors(t *testing.T) {
	router, _ := newMetricsRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRenderMetrics_GaugeReflectsLastWrite(t *testing.T) {
	router, metrics := newMetricsRouter()
	metrics.Record(vitals.WebVitalMetric{Type: vitals.TypeCLS, Value: 0.4, Page: "/a", DeviceType: "mobile"})
	metrics.Record(vitals.WebVitalMetric{Type: vitals.TypeCLS, Value: 0.05, Page: "/a", DeviceType: "mobile"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(),
		`web_vitals_cls_current{device_type="mobile",page="/a"} 0.05`)
}
