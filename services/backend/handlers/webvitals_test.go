// Copyright (C) 2025 Frank Liu
// Tests for the direct Web Vitals ingestion endpoint.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frank-liu/todo-app/services/backend/observability"
	"github.com/frank-liu/todo-app/services/backend/vitals"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newWebVitalsRouter wires the ingestion endpoint onto a bare engine with
// an isolated metrics registry.
func newWebVitalsRouter() (*gin.Engine, *observability.Metrics) {
	metrics := observability.NewMetrics()
	router := gin.New()
	router.POST("/api/webvitals", HandleWebVitalIngest(metrics))
	router.GET("/api/webvitals", WebVitalsInfo())
	return router, metrics
}

// postJSON performs a JSON POST and returns the recorder.
func postJSON(router *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// Success Path Tests
// =============================================================================

func TestHandleWebVitalIngest_RecordsAndEchoes(t *testing.T) {
	router, metrics := newWebVitalsRouter()

	w := postJSON(router, "/api/webvitals", `{"name":"fcp","value":1800,"id":"v3-1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Metric  struct {
			Type       string  `json:"type"`
			Value      float64 `json:"value"`
			Page       string  `json:"page"`
			DeviceType string  `json:"deviceType"`
		} `json:"metric"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.True(t, response.Success)
	assert.Equal(t, "Web Vital metric recorded", response.Message)
	assert.Equal(t, "FCP", response.Metric.Type, "name is case-normalized in the echo")
	assert.Equal(t, 1800.0, response.Metric.Value, "raw value is echoed, not the normalized one")
	assert.Equal(t, "homepage", response.Metric.Page)
	assert.Equal(t, "desktop", response.Metric.DeviceType)
	assert.NotEmpty(t, response.Timestamp)

	// 1800ms FCP sits exactly on the inclusive good boundary.
	assert.Equal(t, 1.0,
		testutil.ToFloat64(metrics.GoodScoresTotal.WithLabelValues("fcp", "homepage", "desktop")))
}

func TestHandleWebVitalIngest_LabelsFromHeaders(t *testing.T) {
	router, metrics := newWebVitalsRouter()

	w := postJSON(router, "/api/webvitals", `{"name":"LCP","value":2000}`, map[string]string{
		"User-Agent": "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)",
		"Referer":    "http://localhost:3000/todos",
	})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0,
		testutil.ToFloat64(metrics.MeasurementsTotal.WithLabelValues("lcp", "/todos", "mobile")))
}

func TestHandleWebVitalIngest_RootRefererIsHomepage(t *testing.T) {
	router, metrics := newWebVitalsRouter()

	w := postJSON(router, "/api/webvitals", `{"name":"TTFB","value":100}`, map[string]string{
		"Referer": "http://localhost:3000/",
	})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0,
		testutil.ToFloat64(metrics.MeasurementsTotal.WithLabelValues("ttfb", "homepage", "desktop")))
}

func TestHandleWebVitalIngest_RepeatedCallsAccumulate(t *testing.T) {
	router, metrics := newWebVitalsRouter()

	for i := 0; i < 3; i++ {
		w := postJSON(router, "/api/webvitals", `{"name":"INP","value":150}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 3.0,
		testutil.ToFloat64(metrics.MeasurementsTotal.WithLabelValues("inp", "homepage", "desktop")))
	// Gauge holds the last normalized value, not an accumulation.
	assert.InDelta(t, 0.15,
		testutil.ToFloat64(metrics.Gauges[vitals.TypeINP].WithLabelValues("homepage", "desktop")), 1e-9)
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestHandleWebVitalIngest_MissingName(t *testing.T) {
	router, _ := newWebVitalsRouter()

	w := postJSON(router, "/api/webvitals", `{"value":10}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing or invalid name field")
}

func TestHandleWebVitalIngest_MissingValue(t *testing.T) {
	router, _ := newWebVitalsRouter()

	w := postJSON(router, "/api/webvitals", `{"name":"LCP"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing or invalid value field")
}

func TestHandleWebVitalIngest_WrongTypedValue(t *testing.T) {
	router, _ := newWebVitalsRouter()

	w := postJSON(router, "/api/webvitals", `{"name":"LCP","value":"fast"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing or invalid value field")
}

func TestHandleWebVitalIngest_NaNValueRejected(t *testing.T) {
	router, _ := newWebVitalsRouter()

	// NaN is not valid JSON; the binding gate rejects it.
	w := postJSON(router, "/api/webvitals", `{"name":"LCP","value":NaN}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleWebVitalIngest_UnknownName(t *testing.T) {
	router, metrics := newWebVitalsRouter()

	w := postJSON(router, "/api/webvitals", `{"name":"BOGUS","value":10}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Error          string   `json:"error"`
		SupportedTypes []string `json:"supportedTypes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Unknown metric type", response.Error)
	assert.Equal(t, []string{"TTFB", "FCP", "LCP", "FID", "CLS", "INP"}, response.SupportedTypes)

	// Nothing reaches the registry for rejected names.
	assert.Equal(t, 0.0,
		testutil.ToFloat64(metrics.MeasurementsTotal.WithLabelValues("bogus", "homepage", "desktop")))
}

// =============================================================================
// Documentation Endpoint Tests
// =============================================================================

func TestWebVitalsInfo(t *testing.T) {
	router, _ := newWebVitalsRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/webvitals", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "supportedMetrics")
	assert.Contains(t, w.Body.String(), "TTFB")
}
