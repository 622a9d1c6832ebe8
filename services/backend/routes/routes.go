// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frank-liu/todo-app/services/backend/grafana"
	"github.com/frank-liu/todo-app/services/backend/handlers"
	"github.com/frank-liu/todo-app/services/backend/observability"
)

// SetupRoutes registers every backend endpoint on the router.
//
// # Inputs
//
//   - router: The gin engine to register on.
//   - metrics: The instrument registry shared by ingestion and export.
//   - grafanaClient: The annotations forwarding client.
func SetupRoutes(router *gin.Engine, metrics *observability.Metrics, grafanaClient *grafana.Client) {
	api := router.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/webvitals", handlers.HandleWebVitalIngest(metrics))
		api.GET("/webvitals", handlers.WebVitalsInfo())

		api.POST("/annotations", handlers.HandleAnnotation(metrics, grafanaClient))
		api.GET("/annotations", handlers.AnnotationsInfo())
	}

	router.GET("/metrics", handlers.RenderMetrics(metrics))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}
