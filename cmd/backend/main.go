// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command backend starts the To-Do app telemetry backend HTTP server.
//
// This is the main entry point for the containerized backend service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - PORT: HTTP server port (default: 4000)
//   - GRAFANA_URL: Grafana base URL for annotation forwarding
//     (default: http://localhost:3001; the literal "disabled" turns it off)
//   - GRAFANA_API_TOKEN: Bearer token for the Grafana API (optional)
//   - FRONTEND_URL: Allowed CORS origin (default: http://localhost:3000)
//   - APP_ENV: "development" includes error details in 5xx responses
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: localhost:4317)
//
// # Usage
//
//	# Build
//	go build -o backend ./cmd/backend
//
//	# Run
//	./backend
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/frank-liu/todo-app/services/backend"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build configuration from environment variables
	cfg := backend.Config{
		Port:            getEnvInt("PORT", 4000),
		GrafanaURL:      getEnvString("GRAFANA_URL", "http://localhost:3001"),
		GrafanaAPIToken: os.Getenv("GRAFANA_API_TOKEN"),
		FrontendURL:     getEnvString("FRONTEND_URL", "http://localhost:3000"),
		Env:             getEnvString("APP_ENV", "production"),
		OTelEndpoint:    getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		EnableTracing:   true,
	}

	slog.Info("Starting backend",
		"port", cfg.Port,
		"grafana_url", cfg.GrafanaURL,
		"frontend_url", cfg.FrontendURL,
	)

	svc, err := backend.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create backend: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Backend error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
