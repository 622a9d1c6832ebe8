// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frank-liu/todo-app/services/backend/observability"
)

// RequestTiming returns middleware feeding the API request duration
// histogram.
//
// # Description
//
// Observes wall-clock duration per request under the matched route
// template, so /api/webvitals stays one label value regardless of
// payload. Unmatched routes (404s) observe under the raw path's empty
// template and are labeled "unmatched" to bound cardinality.
//
// # Inputs
//
//   - metrics: The instrument registry owning the duration histogram.
func RequestTiming(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveAPIRequest(c.Request.Method, route, c.Writer.Status(),
			time.Since(start).Seconds())
	}
}
