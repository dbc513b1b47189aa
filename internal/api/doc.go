// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

/*
Package api provides the HTTP API using the Chi router.

Routes:

	GET  /api/v1/health                          overall status
	GET  /api/v1/health/live                     liveness probe
	GET  /api/v1/health/ready                    readiness probe (pings DuckDB)
	POST /api/v1/recommend-service               run association rule mining (admin)
	GET  /api/v1/recommend-service/status        engine status (admin)
	GET  /api/v1/recommend-service/runs          mining run history (admin)
	GET  /api/v1/association-rules/paging        paged stored rules (admin)
	GET  /api/v1/association-rules/suggestion    products for a basket (public)
	POST /api/v1/transactions                    record a purchase (viewer)
	GET  /metrics                                Prometheus metrics

Every JSON response uses the models.APIResponse envelope:

	{"status": "success", "data": ..., "metadata": {"timestamp": ...}}
	{"status": "error", "data": null, "metadata": {...}, "error": {"code": ..., "message": ...}}

Error codes map to statuses as follows: VALIDATION_ERROR and
INVALID_PARAMETER 400, UNAUTHORIZED 401, FORBIDDEN 403, NOT_FOUND 404,
CONFLICT and RUN_IN_PROGRESS 409, UPSTREAM_UNAVAILABLE 503,
INTERNAL_ERROR 500.

Middleware order: request ID, real IP, recoverer, CORS, rate limiting,
security headers, Prometheus metrics, then authentication per route
group. Suggestions skip authentication.
*/
package api
