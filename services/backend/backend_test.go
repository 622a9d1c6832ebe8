// Copyright (C) 2025 Frank Liu
// Tests for service construction and configuration defaults.

package backend

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyConfigDefaults(t *testing.T) {
	cfg := applyConfigDefaults(Config{})

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "http://localhost:3001", cfg.GrafanaURL)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "localhost:4317", cfg.OTelEndpoint)
}

func TestApplyConfigDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := applyConfigDefaults(Config{
		Port:       8080,
		GrafanaURL: "disabled",
		Env:        "development",
	})

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "disabled", cfg.GrafanaURL)
	assert.Equal(t, "development", cfg.Env)
}

func TestNew_BuildsWorkingService(t *testing.T) {
	svc, err := New(Config{
		GrafanaURL:    "disabled",
		GinMode:       gin.TestMode,
		EnableTracing: false,
	})
	require.NoError(t, err)
	require.NotNil(t, svc.Router())
	require.NotNil(t, svc.Metrics())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/health", nil)
	svc.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_CORSHeadersOnResponses(t *testing.T) {
	svc, err := New(Config{
		GrafanaURL:    "disabled",
		FrontendURL:   "http://example.test",
		GinMode:       gin.TestMode,
		EnableTracing: false,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/health", nil)
	svc.Router().ServeHTTP(w, req)

	assert.Equal(t, "http://example.test", w.Header().Get("Access-Control-Allow-Origin"))
}
