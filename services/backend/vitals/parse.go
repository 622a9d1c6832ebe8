// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package vitals

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// summaryPattern matches a metric name immediately followed by "=", the
// shape produced by the web-vitals collector's summary field ("FCP=1912").
var summaryPattern = regexp.MustCompile(`(TTFB|FCP|LCP|FID|CLS|INP)=`)

// numberPattern matches the first numeric substring of an annotation text.
var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// annotationText is the JSON shape some collectors put in annotation text:
// {"summary":"FCP=1912","id":"...","value":1912,"delta":1912}
type annotationText struct {
	Summary string  `json:"summary"`
	Value   float64 `json:"value"`
}

// ParseWebVitalFromText recovers a Web Vital from annotation text and tags.
//
// # Description
//
// Two strategies are tried in order:
//
//  1. Parse text as JSON with a "summary" field matching "<TYPE>=" and a
//     numeric "value". A zero value is treated as absent, matching the
//     upstream collector payloads, and a successfully parsed JSON body
//     with no recognizable summary yields no result — the tag fallback is
//     only attempted when the text is not JSON at all.
//  2. Scan tags for a literal metric type token; when found and the text
//     contains "=", the first numeric substring of the text is the value.
//
// Page and device labels come from the tags (tag-based derivation rules).
//
// # Inputs
//
//   - text: Free-form annotation text.
//   - tags: Annotation tags in client order.
//
// # Outputs
//
//   - WebVitalMetric: The recovered metric.
//   - bool: False when neither strategy yields a recognized type.
func ParseWebVitalFromText(text string, tags []string) (WebVitalMetric, bool) {
	var parsed annotationText
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		if parsed.Summary == "" || parsed.Value == 0 {
			return WebVitalMetric{}, false
		}
		m := summaryPattern.FindStringSubmatch(parsed.Summary)
		if m == nil {
			return WebVitalMetric{}, false
		}
		return WebVitalMetric{
			Type:       MetricType(m[1]),
			Value:      parsed.Value,
			Page:       PageFromTags(tags),
			DeviceType: DeviceTypeFromTags(tags),
		}, true
	}

	metricType, ok := metricTypeFromTags(tags)
	if !ok || !strings.Contains(text, "=") {
		return WebVitalMetric{}, false
	}
	raw := numberPattern.FindString(text)
	if raw == "" {
		return WebVitalMetric{}, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return WebVitalMetric{}, false
	}
	return WebVitalMetric{
		Type:       metricType,
		Value:      value,
		Page:       PageFromTags(tags),
		DeviceType: DeviceTypeFromTags(tags),
	}, true
}

// metricTypeFromTags finds the first tag that is exactly a metric type
// token. Matching is case-sensitive: tags carry the canonical uppercase
// names emitted by the collector.
func metricTypeFromTags(tags []string) (MetricType, bool) {
	for _, tag := range tags {
		for _, t := range metricTypes {
			if tag == string(t) {
				return t, true
			}
		}
	}
	return "", false
}
