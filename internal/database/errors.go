// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package database

import (
	"errors"
	"io"
	"strings"

	"github.com/tomtom215/basketrules/internal/logging"
)

var (
	// ErrTransactionExists is returned when a purchase ID is already stored.
	ErrTransactionExists = errors.New("transaction already exists")

	// ErrUpstreamUnavailable marks failures caused by the store being
	// unreachable or rejected by the circuit breaker.
	ErrUpstreamUnavailable = errors.New("store unavailable")
)

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use it on error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// rollbackQuietly rolls back a transaction that may already be committed.
func rollbackQuietly(tx interface{ Rollback() error }) {
	_ = tx.Rollback()
}

// isConnectionError reports whether err means the database itself is
// unusable rather than a single query having failed.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "bad connection") ||
		strings.Contains(errStr, "database is closed") ||
		strings.Contains(errStr, "connection is nil") ||
		strings.Contains(errStr, "io error")
}
