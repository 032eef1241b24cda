// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package models

import (
	"time"
)

// APIResponse is the standardized envelope used by all HTTP endpoints.
//
// Status is "success" or "error". Data carries the payload on success;
// Error carries structured details when Status is "error".
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
// QueryTimeMS is the upstream/normalization time in milliseconds (0 when
// the response was served from cache); Cached marks cache hits.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a structured error payload.
//
// Common codes:
//   - VALIDATION_ERROR: invalid or missing request parameter
//   - NOT_FOUND: no cached snapshot for the requested key
//   - UPSTREAM_ERROR: third-party API failure with no cached fallback
//   - STORE_ERROR: document store operation failed
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthResponse reports process health for GET /health.
type HealthResponse struct {
	Status          string       `json:"status"`
	Environment     string       `json:"environment"`
	HasAPIKey       bool         `json:"hasApiKey"`
	HasDBConnection bool         `json:"hasDbConnection"`
	LastSweep       *SweepStatus `json:"lastSweep,omitempty"`
}

// SweepStatus summarizes the most recent background refresh sweep.
type SweepStatus struct {
	StartedAt  time.Time `json:"startedAt"`
	DurationMS int64     `json:"duration_ms"`
	Refreshed  int       `json:"refreshed"`
	Failed     int       `json:"failed"`
	Errors     []string  `json:"errors,omitempty"`
}
