// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// bindErrorMessage maps a gin binding failure to a per-field client error.
//
// # Description
//
// The API contract reports which required field was missing or wrongly
// typed ("Missing or invalid name field"). Two error shapes carry field
// information: validator.ValidationErrors for failed binding tags, and
// json.UnmarshalTypeError for type mismatches. Anything else (malformed
// JSON, empty body) gets the fallback message.
//
// # Inputs
//
//   - err: The error from ShouldBindJSON.
//   - messages: Lowercased field name -> client-facing message.
//   - fallback: Message when no field can be identified.
//
// # Outputs
//
//   - string: The message to place in the "error" response field.
func bindErrorMessage(err error, messages map[string]string, fallback string) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			if msg, ok := messages[strings.ToLower(fieldErr.Field())]; ok {
				return msg
			}
		}
		return fallback
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if msg, ok := messages[strings.ToLower(typeErr.Field)]; ok {
			return msg
		}
	}
	return fallback
}

// isoTimestamp renders the current time the way the frontend expects
// response timestamps: UTC with millisecond precision.
func isoTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
