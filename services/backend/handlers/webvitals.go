// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/frank-liu/todo-app/services/backend/datatypes"
	"github.com/frank-liu/todo-app/services/backend/observability"
	"github.com/frank-liu/todo-app/services/backend/vitals"
)

var webvitalsTracer = otel.Tracer("todoapp.backend.handlers")

// webVitalFieldMessages maps payload fields to their validation errors.
var webVitalFieldMessages = map[string]string{
	"name":  "Missing or invalid name field",
	"value": "Missing or invalid value field",
}

// HandleWebVitalIngest returns the POST /api/webvitals handler.
//
// # Description
//
// Direct Web Vitals ingestion for Prometheus. Validates the collector
// payload, derives page and device labels from the request headers,
// records the metric into the registry, and echoes the recorded metric.
//
// Responses:
//   - 400 {error} on a missing or invalid name/value field
//   - 400 {error, supportedTypes} on an unrecognized metric name
//   - 200 {success, message, metric, timestamp} on success
//
// # Inputs
//
//   - metrics: The instrument registry to record into.
func HandleWebVitalIngest(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := webvitalsTracer.Start(c.Request.Context(), "HandleWebVitalIngest")
		defer span.End()

		var payload datatypes.WebVitalPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.JSON(http.StatusBadRequest, gin.H{
				"error": bindErrorMessage(err, webVitalFieldMessages, "Missing or invalid name field"),
			})
			return
		}

		// JSON cannot carry NaN or Inf, but the binding layer is not the
		// place to assume that.
		if math.IsNaN(*payload.Value) || math.IsInf(*payload.Value, 0) {
			c.JSON(http.StatusBadRequest, gin.H{"error": webVitalFieldMessages["value"]})
			return
		}

		metricType, ok := vitals.ParseMetricType(payload.Name)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          "Unknown metric type",
				"supportedTypes": vitals.SupportedTypes(),
			})
			return
		}

		deviceType := vitals.DetectDeviceType(c.GetHeader("User-Agent"))
		page, ok := vitals.PageFromReferer(c.GetHeader("Referer"))
		if !ok {
			page = vitals.PageHomepage
		}

		metric := vitals.WebVitalMetric{
			Type:       metricType,
			Value:      *payload.Value,
			Page:       page,
			DeviceType: deviceType,
		}
		metrics.Record(metric)

		slog.Info("Direct web vital received",
			"type", metricType,
			"value", metric.Value,
			"page", page,
			"device_type", deviceType,
		)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Web Vital metric recorded",
			"metric": gin.H{
				"type":       metricType,
				"value":      metric.Value,
				"page":       page,
				"deviceType": deviceType,
			},
			"timestamp": isoTimestamp(),
		})
	}
}

// WebVitalsInfo returns the GET /api/webvitals documentation handler.
func WebVitalsInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":          "Direct Web Vitals ingestion endpoint",
			"methods":          []string{"POST"},
			"description":      "Send Web Vitals metrics directly for Prometheus recording",
			"supportedMetrics": vitals.SupportedTypes(),
			"example": gin.H{
				"name":   "FCP",
				"value":  1800,
				"id":     "unique-metric-id",
				"delta":  1800,
				"rating": "good",
			},
		})
	}
}
