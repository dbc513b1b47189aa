// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

/*
Package middleware provides HTTP middleware shared by the API router.

Components:

  - RequestID: accepts or generates an X-Request-ID and stores it, together
    with a fresh correlation ID, in the request context for structured logging
  - PrometheusMetrics: per-route request counts, latencies and in-flight gauge

All middleware use the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

Metrics are labelled with the chi route pattern (for example
/api/v1/association-rules/suggestion) rather than the raw path so that
label cardinality stays bounded.
*/
package middleware
