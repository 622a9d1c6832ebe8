// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// EnvDevelopment marks the environment in which internal error details are
// included in responses.
const EnvDevelopment = "development"

// Recovery returns middleware converting handler panics into 500 responses.
//
// # Description
//
// No single request failure may take the process down. A recovered panic
// is logged server-side and rendered as a generic internal error; the
// detailed message is included only in the development environment.
//
// # Inputs
//
//   - env: Deployment environment name ("development", "production", ...).
func Recovery(env string) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("Panic recovered while handling request",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"panic", recovered,
		)

		message := "Something went wrong"
		if env == EnvDevelopment {
			message = fmt.Sprintf("%v", recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": message,
		})
	})
}
