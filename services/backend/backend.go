// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package backend provides the To-Do app telemetry backend service.
//
// # Description
//
// This package contains the main Service type that wires together the
// Web Vitals telemetry pipeline: HTTP routing, payload validation, the
// Prometheus metrics registry, the Grafana annotations forwarder, and
// tracing.
//
// # Usage
//
//	cfg := backend.Config{Port: 4000}
//	svc, err := backend.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/frank-liu/todo-app/services/backend/grafana"
	"github.com/frank-liu/todo-app/services/backend/middleware"
	"github.com/frank-liu/todo-app/services/backend/observability"
	"github.com/frank-liu/todo-app/services/backend/routes"
)

// tracingServiceName identifies this process in trace backends.
const tracingServiceName = "todo-app-backend"

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the backend service.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying gin engine for testing.
	Router() *gin.Engine

	// Metrics returns the instrument registry, primarily for tests that
	// assert on recorded values.
	Metrics() *observability.Metrics
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds backend configuration options.
//
// All fields are optional; zero values use defaults applied by New().
type Config struct {
	// Port is the HTTP server port. Default: 4000
	Port int

	// GrafanaURL is the Grafana base URL annotations are forwarded to.
	// The literal "disabled" turns forwarding off.
	// Default: "http://localhost:3001"
	GrafanaURL string

	// GrafanaAPIToken is the optional bearer token for the forward.
	GrafanaAPIToken string

	// FrontendURL is the origin allowed for cross-origin requests.
	// Default: "http://localhost:3000"
	FrontendURL string

	// Env is the deployment environment. "development" includes internal
	// error details in 5xx responses. Default: "production"
	Env string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "localhost:4317"
	OTelEndpoint string

	// EnableTracing controls the OTLP exporter. Disabled in tests.
	// Default: true
	EnableTracing bool

	// GinMode sets the gin framework mode ("debug", "release", "test").
	// Empty uses gin's default.
	GinMode string
}

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 4000
	}
	if cfg.GrafanaURL == "" {
		cfg.GrafanaURL = "http://localhost:3001"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}
	if cfg.Env == "" {
		cfg.Env = "production"
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "localhost:4317"
	}
	return cfg
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// # Thread Safety
//
// Thread-safe after construction. All fields are read-only after New()
// returns; the metrics registry synchronizes internally.
type service struct {
	config        Config
	router        *gin.Engine
	metrics       *observability.Metrics
	grafanaClient *grafana.Client
	tracerCleanup func(context.Context)
}

// New creates a backend Service with the given configuration.
//
// # Description
//
// New initializes all components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing (when enabled)
//  3. Builds the Prometheus instrument registry
//  4. Creates the Grafana annotations client
//  5. Sets up HTTP routes and middleware
//
// # Inputs
//
//   - cfg: Service configuration. Zero values use defaults.
//
// # Outputs
//
//   - Service: Ready-to-run backend service.
//   - error: Non-nil if initialization fails.
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}

	if s.config.EnableTracing {
		cleanup, err := s.initTracer()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	s.metrics = observability.NewMetrics()
	s.grafanaClient = grafana.NewClient(s.config.GrafanaURL, s.config.GrafanaAPIToken)
	s.initRouter()

	return s, nil
}

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting backend server",
		"port", s.config.Port,
		"grafana_url", s.config.GrafanaURL,
		"frontend_url", s.config.FrontendURL,
	)

	return s.router.Run(addr)
}

// Router returns the underlying gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// Metrics returns the instrument registry.
func (s *service) Metrics() *observability.Metrics {
	return s.metrics
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// initRouter builds the gin engine with the full middleware chain.
func (s *service) initRouter() {
	router := gin.New()
	router.Use(
		gin.Logger(),
		middleware.Recovery(s.config.Env),
		middleware.CORS(s.config.FrontendURL),
		middleware.RequestTiming(s.metrics),
	)
	if s.config.EnableTracing {
		router.Use(otelgin.Middleware(tracingServiceName))
	}

	routes.SetupRoutes(router, s.metrics, s.grafanaClient)
	s.router = router
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// # Description
//
// Sets up an OTLP trace exporter sending spans to the configured
// collector over an insecure gRPC connection (appropriate for internal
// networks). The connection is lazy; an unreachable collector does not
// fail startup.
//
// # Outputs
//
//   - func(context.Context): Cleanup function to call on shutdown.
//   - error: Non-nil if exporter setup fails.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(tracingServiceName)))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// cleanup releases resources on shutdown.
func (s *service) cleanup() {
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}
