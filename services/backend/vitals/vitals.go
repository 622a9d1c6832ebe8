// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package vitals implements the Web Vitals domain rules for the backend.
//
// # Description
//
// This package holds the pure parts of the telemetry pipeline:
//   - The metric type enumeration (TTFB, FCP, LCP, FID, CLS, INP)
//   - Performance classification against Google's recommended thresholds
//   - Unit normalization (milliseconds to seconds, CLS kept as a score)
//   - Label derivation from request headers and from annotation tags
//   - Best-effort recovery of a metric from free-form annotation text
//
// Everything here is side-effect free. Recording into Prometheus lives in
// the observability package; HTTP concerns live in handlers.
//
// # Units
//
// Classification always operates on the RAW value in the metric's native
// unit (milliseconds, or the unitless CLS score). Normalize is only applied
// to the value that is stored in histograms and gauges. Classifying a
// normalized value would shift every category boundary by 1000x.
package vitals

// =============================================================================
// Metric Types
// =============================================================================

// MetricType identifies one of the six supported Web Vitals.
type MetricType string

const (
	// TypeTTFB is Time to First Byte (server response time, ms).
	TypeTTFB MetricType = "TTFB"

	// TypeFCP is First Contentful Paint (ms).
	TypeFCP MetricType = "FCP"

	// TypeLCP is Largest Contentful Paint (loading performance, ms).
	TypeLCP MetricType = "LCP"

	// TypeFID is First Input Delay (interactivity, ms).
	TypeFID MetricType = "FID"

	// TypeCLS is Cumulative Layout Shift (visual stability, unitless score).
	TypeCLS MetricType = "CLS"

	// TypeINP is Interaction to Next Paint (responsiveness, ms).
	TypeINP MetricType = "INP"
)

// metricTypes lists every supported type in presentation order.
var metricTypes = []MetricType{TypeTTFB, TypeFCP, TypeLCP, TypeFID, TypeCLS, TypeINP}

// SupportedTypes returns the supported metric type names in a stable order.
//
// # Outputs
//
//   - []string: ["TTFB", "FCP", "LCP", "FID", "CLS", "INP"]
func SupportedTypes() []string {
	names := make([]string, 0, len(metricTypes))
	for _, t := range metricTypes {
		names = append(names, string(t))
	}
	return names
}

// ParseMetricType maps a client-supplied name to a MetricType.
//
// # Description
//
// Matching is case-insensitive so that collector payloads using "fcp" and
// "FCP" both resolve. Unknown names return ok=false and must be rejected
// before anything reaches the metrics registry.
//
// # Inputs
//
//   - name: Raw metric name from the request payload.
//
// # Outputs
//
//   - MetricType: The canonical type on success.
//   - bool: False when the name is not one of the six supported vitals.
func ParseMetricType(name string) (MetricType, bool) {
	upper := toUpperASCII(name)
	for _, t := range metricTypes {
		if upper == string(t) {
			return t, true
		}
	}
	return "", false
}

// toUpperASCII uppercases a metric name without pulling in full Unicode
// case mapping. Metric names are ASCII by definition.
func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// =============================================================================
// Metric Value
// =============================================================================

// WebVitalMetric is a single observed Web Vital, ready for recording.
//
// # Fields
//
//   - Type: One of the six supported metric types.
//   - Value: Raw value in the metric's native unit (ms, or score for CLS).
//   - Page: Originating page path. Empty means "not derivable".
//   - DeviceType: mobile, tablet, desktop, or unknown.
type WebVitalMetric struct {
	Type       MetricType
	Value      float64
	Page       string
	DeviceType string
}

// =============================================================================
// Classification
// =============================================================================

// Category is the performance bucket a measurement falls into.
type Category string

const (
	// CategoryGood means the value is at or below the "good" threshold.
	CategoryGood Category = "good"

	// CategoryNeedsImprovement means the value is above "good" but at or
	// below the "needs improvement" threshold.
	CategoryNeedsImprovement Category = "needs-improvement"

	// CategoryPoor means the value exceeds the "needs improvement" threshold.
	CategoryPoor Category = "poor"
)

// threshold holds the upper bounds for the good and needs-improvement
// categories, in the metric's native unit.
type threshold struct {
	Good             float64
	NeedsImprovement float64
}

// Thresholds follow Google's Core Web Vitals recommendations. Values are
// milliseconds for every type except CLS, which is a unitless score.
var thresholds = map[MetricType]threshold{
	TypeTTFB: {Good: 800, NeedsImprovement: 1800},
	TypeFCP:  {Good: 1800, NeedsImprovement: 3000},
	TypeLCP:  {Good: 2500, NeedsImprovement: 4000},
	TypeFID:  {Good: 100, NeedsImprovement: 300},
	TypeCLS:  {Good: 0.1, NeedsImprovement: 0.25},
	TypeINP:  {Good: 200, NeedsImprovement: 500},
}

// Classify buckets a raw metric value into a performance category.
//
// # Description
//
// Boundaries are inclusive on the lower side: a value exactly equal to the
// "good" threshold classifies as good. The input must be the raw value in
// the metric's native unit, never the normalized one.
//
// # Inputs
//
//   - t: Metric type. Callers validate via ParseMetricType first.
//   - value: Raw value in the metric's native unit.
//
// # Outputs
//
//   - Category: good, needs-improvement, or poor.
func Classify(t MetricType, value float64) Category {
	th, ok := thresholds[t]
	if !ok {
		// Unknown types are rejected at ingestion; treat defensively as poor.
		return CategoryPoor
	}
	switch {
	case value <= th.Good:
		return CategoryGood
	case value <= th.NeedsImprovement:
		return CategoryNeedsImprovement
	default:
		return CategoryPoor
	}
}

// =============================================================================
// Normalization
// =============================================================================

// Normalize converts a raw metric value into the unit stored in Prometheus.
//
// # Description
//
// Time-based vitals arrive in milliseconds and are stored in seconds. CLS
// is a unitless score and passes through unchanged.
//
// # Inputs
//
//   - t: Metric type.
//   - value: Raw value in the metric's native unit.
//
// # Outputs
//
//   - float64: Seconds for time-based metrics, the unchanged score for CLS.
func Normalize(t MetricType, value float64) float64 {
	if t == TypeCLS {
		return value
	}
	return value / 1000
}
