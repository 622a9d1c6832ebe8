// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package grafana is a minimal client for the Grafana annotations API.
//
// # Description
//
// The backend relays Web Vitals annotations to Grafana on a best-effort
// basis. This client covers exactly that: a single POST to
// /api/annotations with an optional bearer token. No retries, no backoff;
// every annotation is attempted exactly once and failures are the
// caller's to log and ignore.
package grafana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DisabledSentinel is the configured base URL value that turns forwarding
// off entirely.
const DisabledSentinel = "disabled"

// Annotation is the wire shape of a Grafana annotation.
//
// # Fields
//
//   - Tags: Ordered tags, passed through from the client payload.
//   - Text: Free-form annotation text.
//   - Time: Annotation time in epoch milliseconds.
//   - TimeEnd: Optional region end in epoch milliseconds; omitted when zero.
type Annotation struct {
	Tags    []string `json:"tags"`
	Text    string   `json:"text"`
	Time    int64    `json:"time"`
	TimeEnd int64    `json:"timeEnd,omitempty"`
}

// Client posts annotations to a Grafana instance.
//
// # Thread Safety
//
// Safe for concurrent use; all fields are read-only after NewClient.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient creates a Grafana annotations client.
//
// # Inputs
//
//   - baseURL: Grafana base URL, e.g. "http://localhost:3001". The literal
//     "disabled" marks the client as a no-op target.
//   - apiToken: Optional bearer token. Empty means no Authorization header.
//
// # Outputs
//
//   - *Client: Ready-to-use client using the default HTTP transport.
func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiToken:   apiToken,
		httpClient: http.DefaultClient,
	}
}

// Disabled reports whether forwarding is turned off by configuration.
func (c *Client) Disabled() bool {
	return c.baseURL == DisabledSentinel
}

// PostAnnotation sends one annotation to Grafana.
//
// # Description
//
// Issues POST {baseURL}/api/annotations with a JSON body and
// Content-Type: application/json, plus Authorization: Bearer <token> when
// a token is configured. Any non-2xx response is an error carrying the
// status and a snippet of the response body.
//
// # Inputs
//
//   - ctx: Controls the request lifetime. Callers forwarding in the
//     background must not pass a request-scoped context.
//   - annotation: The annotation to post.
//
// # Outputs
//
//   - error: Non-nil on network failure or non-2xx response.
func (c *Client) PostAnnotation(ctx context.Context, annotation Annotation) error {
	body, err := json.Marshal(annotation)
	if err != nil {
		return fmt.Errorf("failed to encode annotation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/annotations", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build annotation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach Grafana: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("grafana API error: %d %s: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), string(snippet))
	}
	return nil
}
