// Copyright (C) 2025 Frank Liu
// Tests for route registration.

package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/frank-liu/todo-app/services/backend/grafana"
	"github.com/frank-liu/todo-app/services/backend/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	router := gin.New()
	SetupRoutes(router, observability.NewMetrics(), grafana.NewClient(grafana.DisabledSentinel, ""))
	return router
}

func TestSetupRoutes_AllEndpointsRegistered(t *testing.T) {
	router := newRouter()

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodGet, "/api/webvitals", "", http.StatusOK},
		{http.MethodPost, "/api/webvitals", `{"name":"FCP","value":100}`, http.StatusOK},
		{http.MethodGet, "/api/annotations", "", http.StatusOK},
		{http.MethodPost, "/api/annotations", `{"tags":[],"text":"x"}`, http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		if tt.body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		router.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestSetupRoutes_UnknownRouteIs404JSON(t *testing.T) {
	router := newRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}
