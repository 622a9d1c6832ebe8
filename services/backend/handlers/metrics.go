// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/common/expfmt"

	"github.com/frank-liu/todo-app/services/backend/observability"
)

// RenderMetrics returns the GET /metrics handler.
//
// # Description
//
// Renders the injected registry in the Prometheus text exposition format.
// A gather failure is reported as 500 {error, message}; an encode failure
// after headers are written can only be logged.
//
// # Inputs
//
//   - metrics: The instrument registry to expose.
func RenderMetrics(metrics *observability.Metrics) gin.HandlerFunc {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)

	return func(c *gin.Context) {
		families, err := metrics.Registry.Gather()
		if err != nil {
			slog.Error("Failed to gather metrics", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to generate metrics",
				"message": err.Error(),
			})
			return
		}

		c.Header("Content-Type", string(format))
		c.Status(http.StatusOK)

		encoder := expfmt.NewEncoder(c.Writer, format)
		for _, family := range families {
			if err := encoder.Encode(family); err != nil {
				slog.Error("Failed to encode metric family",
					"family", family.GetName(), "error", err)
				return
			}
		}
	}
}
