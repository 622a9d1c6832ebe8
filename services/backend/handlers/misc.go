// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the HTTP endpoints of the backend.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// serviceName and serviceVersion identify the backend in health responses.
const (
	serviceName    = "todo-app-backend"
	serviceVersion = "1.0.0"
)

var processStart = time.Now()

// HealthCheck handles GET /api/health.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": isoTimestamp(),
		"uptime":    time.Since(processStart).Seconds(),
		"service":   serviceName,
		"version":   serviceVersion,
	})
}
