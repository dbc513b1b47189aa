// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current consecutive failure count",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Mining Metrics
	MiningRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mining_runs_total",
			Help: "Mining runs by trigger and result",
		},
		[]string{"trigger", "result"}, // result: persisted, empty, rejected, failed
	)

	MiningRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mining_run_duration_seconds",
			Help:    "Duration of the FP-growth pipeline in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300, 1800},
		},
	)

	MiningTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mining_transactions",
			Help: "Transactions read by the last mining run",
		},
	)

	MiningItemsets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mining_frequent_itemsets",
			Help: "Frequent itemsets found by the last mining run",
		},
	)

	MiningRules = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mining_rules",
			Help: "Association rules produced by the last mining run",
		},
	)

	MiningLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mining_last_success_timestamp",
			Help: "Unix time of the last run that replaced the stored rules",
		},
	)

	// Suggestion Cache Metrics
	SuggestionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggestion_cache_hits_total",
			Help: "Suggestion lookups served from cache",
		},
	)

	SuggestionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggestion_cache_misses_total",
			Help: "Suggestion lookups that queried the store",
		},
	)

	SuggestionCacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggestion_cache_invalidations_total",
			Help: "Suggestion cache flushes after rule replacement",
		},
	)
)

// RecordDBQuery records one DuckDB query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordMiningRun records the outcome of one mining run. Sizes are only
// recorded when the pipeline completed.
func RecordMiningRun(trigger, result string, duration time.Duration, transactions, itemsets, rules int) {
	MiningRunsTotal.WithLabelValues(trigger, result).Inc()
	if result != "persisted" && result != "empty" {
		return
	}
	MiningRunDuration.Observe(duration.Seconds())
	MiningTransactions.Set(float64(transactions))
	MiningItemsets.Set(float64(itemsets))
	MiningRules.Set(float64(rules))
	if result == "persisted" {
		MiningLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordSuggestionCache records a suggestion cache lookup.
func RecordSuggestionCache(hit bool) {
	if hit {
		SuggestionCacheHits.Inc()
	} else {
		SuggestionCacheMisses.Inc()
	}
}
