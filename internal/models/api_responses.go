// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package models

import (
	"time"
)

// APIResponse is the envelope of every HTTP response.
//
// Status is "success" or "error". On error, Error is populated and Data is
// null.
//
//	{
//	  "status": "success",
//	  "data": {"created": true, "rules": 42},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 812}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and cache information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError describes a failed request.
//
// Codes used by the API:
//   - VALIDATION_ERROR: request body or query failed validation
//   - INVALID_PARAMETER: mining threshold out of range
//   - RUN_IN_PROGRESS: another mining run holds the lock
//   - UPSTREAM_UNAVAILABLE: the transaction store cannot be reached
//   - UNAUTHORIZED, FORBIDDEN, NOT_FOUND, METHOD_NOT_ALLOWED, INTERNAL_ERROR
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements error.
func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}
