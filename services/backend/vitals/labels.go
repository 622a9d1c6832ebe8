// Copyright (C) 2025 Frank Liu
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package vitals

import (
	"net/url"
	"strings"
)

// PageHomepage is the page label used when no page can be derived on the
// header-based and tag-based paths, and for the root path "/".
const PageHomepage = "homepage"

// DeviceUnknown is the device label used when annotation tags carry no
// recognizable device class.
const DeviceUnknown = "unknown"

// =============================================================================
// Header-Based Derivation (direct ingestion path)
// =============================================================================

// DetectDeviceType infers a device class from a User-Agent string.
//
// # Description
//
// Uses a case-insensitive substring match:
//   - "mobile", "android", "iphone" -> mobile
//   - "tablet", "ipad"              -> tablet
//   - anything else                 -> desktop
//
// The empty string therefore classifies as desktop; the direct ingestion
// path never produces "unknown".
//
// # Inputs
//
//   - userAgent: Raw User-Agent header value. May be empty.
//
// # Outputs
//
//   - string: "mobile", "tablet", or "desktop".
func DetectDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "android"), strings.Contains(ua, "iphone"):
		return "mobile"
	case strings.Contains(ua, "tablet"), strings.Contains(ua, "ipad"):
		return "tablet"
	default:
		return "desktop"
	}
}

// PageFromReferer extracts the page path from a Referer header value.
//
// # Description
//
// The referer must be an absolute URL. The root path "/" (or an empty
// path) maps to the homepage sentinel. A missing or unparsable referer
// returns ok=false so callers can apply their own fallback.
//
// # Inputs
//
//   - referer: Raw Referer header value. May be empty.
//
// # Outputs
//
//   - string: The URL path component, or "homepage" for the root path.
//   - bool: False when the referer is absent or not an absolute URL.
func PageFromReferer(referer string) (string, bool) {
	if referer == "" {
		return "", false
	}
	u, err := url.Parse(referer)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", false
	}
	if u.Path == "" || u.Path == "/" {
		return PageHomepage, true
	}
	return u.Path, true
}

// =============================================================================
// Tag-Based Derivation (annotation parsing path)
// =============================================================================

// DeviceTypeFromTags returns the first tag that names a device class.
//
// # Description
//
// Matching is case-insensitive against {mobile, desktop, tablet}. When no
// tag matches, the result is the "unknown" sentinel — unlike the
// header-based path, which falls back to desktop.
//
// # Inputs
//
//   - tags: Annotation tags in client order.
//
// # Outputs
//
//   - string: "mobile", "desktop", "tablet", or "unknown".
func DeviceTypeFromTags(tags []string) string {
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		if lower == "mobile" || lower == "desktop" || lower == "tablet" {
			return lower
		}
	}
	return DeviceUnknown
}

// PageFromTags returns the page identified by annotation tags.
//
// # Description
//
// The first tag starting with "page:" (prefix stripped) or with "/" wins.
// When no tag matches, the result is the homepage sentinel.
//
// # Inputs
//
//   - tags: Annotation tags in client order.
//
// # Outputs
//
//   - string: The page path, or "homepage".
func PageFromTags(tags []string) string {
	for _, tag := range tags {
		if strings.HasPrefix(tag, "page:") {
			return strings.TrimPrefix(tag, "page:")
		}
		if strings.HasPrefix(tag, "/") {
			return tag
		}
	}
	return PageHomepage
}
