// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the backend.
//
// # Description
//
// This package owns every instrument the telemetry pipeline records into:
//   - Per-vital histograms (value distribution, in seconds or CLS score)
//   - Per-vital gauges (latest observed value)
//   - Measurement and performance-category counters
//   - Grafana forward outcome counter
//   - API request duration histogram
//
// Metric names, label names, and bucket layouts are part of the public
// scrape contract consumed by the Grafana dashboards; do not rename them.
//
// # Registry Ownership
//
// Metrics holds its own *prometheus.Registry rather than using the global
// default registry. The registry is injected into the handlers that need
// it, which keeps parallel test suites isolated and the /metrics endpoint
// explicit about what it exposes.
//
// # Thread Safety
//
// All instrument operations are thread-safe via Prometheus's internal
// locking. The four updates performed by Record are independent; a scrape
// racing a Record may observe the counter before the gauge. That is
// acceptable: the registry stores aggregates, not an event log.
package observability

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/frank-liu/todo-app/services/backend/vitals"
)

// processNamespace prefixes the process-level collector metrics, matching
// the todo_app_ prefix the dashboards expect.
const processNamespace = "todo_app"

// labelUnknown is the sentinel applied when a recorded metric carries no
// page or device information. The ingestion handlers apply their own
// fallbacks first, so in practice this only shows up for metrics recovered
// from sparse annotation text.
const labelUnknown = "unknown"

// histogramSpec pairs a vital with its scrape name, help text, and buckets.
type histogramSpec struct {
	metricType vitals.MetricType
	name       string
	help       string
	buckets    []float64
}

// Histogram buckets are in stored units: seconds for time-based vitals,
// the raw score for CLS.
var histogramSpecs = []histogramSpec{
	{vitals.TypeTTFB, "web_vitals_ttfb_seconds", "Time to First Byte (TTFB) in seconds",
		[]float64{0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0}},
	{vitals.TypeFCP, "web_vitals_fcp_seconds", "First Contentful Paint (FCP) in seconds",
		[]float64{0.5, 1.0, 1.5, 2.0, 3.0, 4.0, 6.0}},
	{vitals.TypeLCP, "web_vitals_lcp_seconds", "Largest Contentful Paint (LCP) in seconds",
		[]float64{1.0, 2.0, 2.5, 3.0, 4.0, 5.0, 8.0}},
	{vitals.TypeFID, "web_vitals_fid_seconds", "First Input Delay (FID) in seconds",
		[]float64{0.01, 0.05, 0.1, 0.3, 0.5, 1.0}},
	{vitals.TypeCLS, "web_vitals_cls_score", "Cumulative Layout Shift (CLS) score",
		[]float64{0.05, 0.1, 0.15, 0.25, 0.5, 1.0}},
	{vitals.TypeINP, "web_vitals_inp_seconds", "Interaction to Next Paint (INP) in seconds",
		[]float64{0.1, 0.2, 0.5, 1.0, 2.0, 5.0}},
}

// gaugeSpec pairs a vital with its current-value gauge name and help text.
type gaugeSpec struct {
	metricType vitals.MetricType
	name       string
	help       string
}

var gaugeSpecs = []gaugeSpec{
	{vitals.TypeTTFB, "web_vitals_ttfb_current", "Current TTFB value in seconds"},
	{vitals.TypeFCP, "web_vitals_fcp_current", "Current FCP value in seconds"},
	{vitals.TypeLCP, "web_vitals_lcp_current", "Current LCP value in seconds"},
	{vitals.TypeFID, "web_vitals_fid_current", "Current FID value in seconds"},
	{vitals.TypeCLS, "web_vitals_cls_current", "Current CLS score"},
	{vitals.TypeINP, "web_vitals_inp_current", "Current INP value in seconds"},
}

// Metrics holds every Prometheus instrument for the backend.
//
// # Fields
//
//   - Registry: The owning registry, exposed for the /metrics endpoint.
//   - Histograms: Per-vital value distributions. Labels: page, device_type.
//   - Gauges: Per-vital latest values. Labels: page, device_type.
//   - MeasurementsTotal: All measurements. Labels: metric_type, page, device_type.
//   - GoodScoresTotal / NeedsImprovementScoresTotal / PoorScoresTotal:
//     Performance category counters, same labels as MeasurementsTotal.
//   - GrafanaForwardsTotal: Forward outcomes. Label: status (success, error).
//   - APIRequestDuration: Request latency. Labels: method, route, status_code.
//
// # Thread Safety
//
// All operations are thread-safe.
type Metrics struct {
	Registry *prometheus.Registry

	Histograms map[vitals.MetricType]*prometheus.HistogramVec
	Gauges     map[vitals.MetricType]*prometheus.GaugeVec

	MeasurementsTotal           *prometheus.CounterVec
	GoodScoresTotal             *prometheus.CounterVec
	NeedsImprovementScoresTotal *prometheus.CounterVec
	PoorScoresTotal             *prometheus.CounterVec

	GrafanaForwardsTotal *prometheus.CounterVec

	APIRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all backend instruments.
//
// # Description
//
// Builds a fresh registry, attaches the Go runtime and process collectors
// (the analog of the Node backend's default metrics), and registers every
// Web Vitals instrument via promauto. Call once per process; tests may
// call freely since each instance is fully isolated.
//
// # Outputs
//
//   - *Metrics: The initialized instrument set.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
			Namespace: processNamespace,
		}),
	)

	factory := promauto.With(registry)

	m := &Metrics{
		Registry:   registry,
		Histograms: make(map[vitals.MetricType]*prometheus.HistogramVec, len(histogramSpecs)),
		Gauges:     make(map[vitals.MetricType]*prometheus.GaugeVec, len(gaugeSpecs)),
	}

	for _, spec := range histogramSpecs {
		m.Histograms[spec.metricType] = factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    spec.name,
				Help:    spec.help,
				Buckets: spec.buckets,
			},
			[]string{"page", "device_type"},
		)
	}

	for _, spec := range gaugeSpecs {
		m.Gauges[spec.metricType] = factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: spec.name,
				Help: spec.help,
			},
			[]string{"page", "device_type"},
		)
	}

	measurementLabels := []string{"metric_type", "page", "device_type"}

	m.MeasurementsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_vitals_measurements_total",
			Help: "Total number of Web Vitals measurements received",
		},
		measurementLabels,
	)

	m.GoodScoresTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_vitals_good_scores_total",
			Help: "Total number of good Web Vitals scores",
		},
		measurementLabels,
	)

	m.NeedsImprovementScoresTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_vitals_needs_improvement_scores_total",
			Help: "Total number of Web Vitals scores that need improvement",
		},
		measurementLabels,
	)

	m.PoorScoresTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_vitals_poor_scores_total",
			Help: "Total number of poor Web Vitals scores",
		},
		measurementLabels,
	)

	m.GrafanaForwardsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grafana_forwards_total",
			Help: "Total number of requests forwarded to Grafana",
		},
		[]string{"status"},
	)

	m.APIRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
		},
		[]string{"method", "route", "status_code"},
	)

	return m
}

// Record applies one Web Vital to every relevant instrument.
//
// # Description
//
// Performs four independent updates:
//  1. Observes the normalized value in the vital's histogram.
//  2. Sets the vital's gauge to the same normalized value (last-write-wins).
//  3. Increments the total measurements counter.
//  4. Classifies the RAW value and increments exactly one category counter.
//
// Empty page or device labels default to "unknown". Record never fails:
// an unknown metric type (which validation upstream should have rejected)
// skips the per-vital instruments but still counts the measurement.
//
// # Inputs
//
//   - metric: The observed vital with raw value and derived labels.
func (m *Metrics) Record(metric vitals.WebVitalMetric) {
	page := metric.Page
	if page == "" {
		page = labelUnknown
	}
	deviceType := metric.DeviceType
	if deviceType == "" {
		deviceType = labelUnknown
	}

	stored := vitals.Normalize(metric.Type, metric.Value)

	if histogram, ok := m.Histograms[metric.Type]; ok {
		histogram.WithLabelValues(page, deviceType).Observe(stored)
	}
	if gauge, ok := m.Gauges[metric.Type]; ok {
		gauge.WithLabelValues(page, deviceType).Set(stored)
	}

	metricType := strings.ToLower(string(metric.Type))
	m.MeasurementsTotal.WithLabelValues(metricType, page, deviceType).Inc()

	category := vitals.Classify(metric.Type, metric.Value)
	switch category {
	case vitals.CategoryGood:
		m.GoodScoresTotal.WithLabelValues(metricType, page, deviceType).Inc()
	case vitals.CategoryNeedsImprovement:
		m.NeedsImprovementScoresTotal.WithLabelValues(metricType, page, deviceType).Inc()
	case vitals.CategoryPoor:
		m.PoorScoresTotal.WithLabelValues(metricType, page, deviceType).Inc()
	}

	slog.Info("Recorded web vital",
		"type", metric.Type,
		"value", metric.Value,
		"category", category,
		"page", page,
		"device_type", deviceType,
	)
}

// RecordGrafanaForward counts a forward attempt outcome.
//
// # Inputs
//
//   - success: Whether the Grafana API accepted the annotation.
func (m *Metrics) RecordGrafanaForward(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.GrafanaForwardsTotal.WithLabelValues(status).Inc()
}

// ObserveAPIRequest records one handled HTTP request.
//
// # Inputs
//
//   - method: HTTP method.
//   - route: The matched route template (not the raw path).
//   - status: HTTP response status code.
//   - seconds: Wall-clock handling duration.
func (m *Metrics) ObserveAPIRequest(method, route string, status int, seconds float64) {
	m.APIRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
