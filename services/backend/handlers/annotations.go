// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/frank-liu/todo-app/services/backend/datatypes"
	"github.com/frank-liu/todo-app/services/backend/grafana"
	"github.com/frank-liu/todo-app/services/backend/observability"
	"github.com/frank-liu/todo-app/services/backend/vitals"
)

var annotationsTracer = otel.Tracer("todoapp.backend.handlers")

// annotationFieldMessages maps payload fields to their validation errors.
var annotationFieldMessages = map[string]string{
	"tags": "Missing or invalid tags field",
	"text": "Missing or invalid text field",
}

// HandleAnnotation returns the POST /api/annotations handler.
//
// # Description
//
// Accepts Web-Vitals-shaped annotations and relays them to Grafana on a
// best-effort basis. The caller-facing contract is "accepted for relay":
// once validation passes the response is always 200, regardless of the
// forward outcome.
//
// Processing after validation:
//  1. Build the Grafana annotation. Time defaults to now (epoch ms);
//     timeEnd is included only when non-zero.
//  2. Dual-write: when the annotation text carries a recognizable Web
//     Vital, record it into the local registry too.
//  3. Forward in a detached goroutine unless the configured target is the
//     "disabled" sentinel. Failures are logged and counted, never
//     surfaced.
//
// # Inputs
//
//   - metrics: The instrument registry for dual-writes and forward counts.
//   - client: The Grafana annotations client.
func HandleAnnotation(metrics *observability.Metrics, client *grafana.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := annotationsTracer.Start(c.Request.Context(), "HandleAnnotation")
		defer span.End()

		var payload datatypes.AnnotationPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.JSON(http.StatusBadRequest, gin.H{
				"error": bindErrorMessage(err, annotationFieldMessages, "Missing or invalid tags field"),
			})
			return
		}

		annotation := grafana.Annotation{
			Tags:    payload.Tags,
			Text:    payload.Text,
			Time:    payload.Time,
			TimeEnd: payload.TimeEnd,
		}
		if annotation.Time == 0 {
			annotation.Time = time.Now().UnixMilli()
		}

		slog.Info("Received web vitals annotation",
			"tags", annotation.Tags,
			"text", annotation.Text,
			"time", time.UnixMilli(annotation.Time).UTC(),
		)

		if metric, ok := vitals.ParseWebVitalFromText(payload.Text, payload.Tags); ok {
			metrics.Record(metric)
		}

		if client.Disabled() {
			slog.Info("Grafana forwarding disabled")
		} else {
			go forwardAnnotation(metrics, client, annotation)
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Web Vitals data received",
			"timestamp": isoTimestamp(),
		})
	}
}

// forwardAnnotation posts one annotation to Grafana and logs the outcome.
// It runs detached from the request; the response has already been sent,
// so the request context must not be used here.
func forwardAnnotation(metrics *observability.Metrics, client *grafana.Client, annotation grafana.Annotation) {
	if err := client.PostAnnotation(context.Background(), annotation); err != nil {
		slog.Error("Failed to forward annotation to Grafana", "error", err)
		metrics.RecordGrafanaForward(false)
		return
	}
	slog.Info("Forwarded annotation to Grafana")
	metrics.RecordGrafanaForward(true)
}

// AnnotationsInfo returns the GET /api/annotations documentation handler.
func AnnotationsInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":     "Annotations endpoint is working",
			"methods":     []string{"POST"},
			"description": "Send Web Vitals data here to forward to Grafana",
			"example": gin.H{
				"tags": []string{"web-vitals", "CLS"},
				"text": "CLS: 0.05 (good)",
				"time": time.Now().UnixMilli(),
			},
		})
	}
}
