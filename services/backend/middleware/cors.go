// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the backend service.
//
// This package contains cross-origin handling, panic recovery implementing
// the internal-error contract, and per-request metrics timing.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS returns middleware granting cross-origin access to one origin.
//
// # Description
//
// The frontend is served from its own origin (dev server or CDN), so
// every API response carries the allow headers for the configured origin
// with credentials enabled. OPTIONS preflights are answered with 204 and
// never reach the handlers.
//
// # Inputs
//
//   - allowedOrigin: The single origin to allow, e.g. "http://localhost:3000".
func CORS(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
