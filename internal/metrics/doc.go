// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Package metrics registers the Prometheus collectors exported on /metrics.
//
// Collectors are package level promauto variables grouped by concern: DuckDB
// queries, HTTP API traffic, the store circuit breaker, mining runs and the
// suggestion cache. Record* helpers keep label handling in one place.
package metrics
