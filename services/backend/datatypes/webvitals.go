// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes holds the validated wire shapes of the backend API.
//
// Each ingestion endpoint binds its payload into one of these structs via
// gin's JSON binding, which is the single validation gate per endpoint.
// Anything that does not conform is rejected before domain values are
// constructed.
package datatypes

// WebVitalPayload is the body of POST /api/webvitals, the shape emitted by
// the web-vitals browser collector.
//
// # Fields
//
//   - Name: Metric name ("FCP", "lcp", ...). Required; unknown names are
//     rejected by the handler with the supported-types list.
//   - Value: Raw metric value in the metric's native unit. A pointer so a
//     missing field is distinguishable from a legitimate zero.
//   - ID: Collector-assigned measurement id. Informational only.
//   - Delta, NavigationType, Rating: Passed by the collector, unused here.
type WebVitalPayload struct {
	Name           string   `json:"name" binding:"required"`
	Value          *float64 `json:"value" binding:"required"`
	ID             string   `json:"id"`
	Delta          *float64 `json:"delta"`
	NavigationType string   `json:"navigationType"`
	Rating         string   `json:"rating"`
}

// AnnotationPayload is the body of POST /api/annotations.
//
// # Fields
//
//   - Tags: Annotation tags. Required to be present as an array; an empty
//     array is valid.
//   - Text: Annotation text. Required and non-empty.
//   - Time: Optional annotation time in epoch milliseconds. Zero means
//     "now" to the handler.
//   - TimeEnd: Optional region end in epoch milliseconds. Only forwarded
//     when non-zero.
type AnnotationPayload struct {
	Tags    []string `json:"tags" binding:"required"`
	Text    string   `json:"text" binding:"required"`
	Time    int64    `json:"time"`
	TimeEnd int64    `json:"timeEnd"`
}
