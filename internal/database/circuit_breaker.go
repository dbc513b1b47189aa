// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/basketrules/internal/config"
	"github.com/tomtom215/basketrules/internal/logging"
	"github.com/tomtom215/basketrules/internal/metrics"
	"github.com/tomtom215/basketrules/internal/mining"
	"github.com/tomtom215/basketrules/internal/models"
)

// BreakerName labels the store circuit breaker in logs and metrics.
const BreakerName = "duckdb-store"

// CircuitBreakerStore wraps a Store with the circuit breaker pattern so that
// callers fail fast with ErrUpstreamUnavailable while DuckDB is unhealthy.
//
// Caller mistakes (duplicate transaction ids, cancelled contexts) do not count
// as failures.
type CircuitBreakerStore struct {
	store Store
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

// NewCircuitBreakerStore wraps store. The breaker opens once at least
// cfg.MinRequests calls were seen in the current interval and the failure
// ratio reaches cfg.FailureRatio.
func NewCircuitBreakerStore(store Store, cfg config.BreakerConfig) *CircuitBreakerStore {
	name := BreakerName

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio

			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrTransactionExists) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &CircuitBreakerStore{store: store, cb: cb, name: name}
}

// State returns the breaker state as "closed", "half-open" or "open".
func (s *CircuitBreakerStore) State() string {
	return stateToString(s.cb.State())
}

// execute runs fn through the breaker and maps rejections and connectivity
// failures to ErrUpstreamUnavailable.
func (s *CircuitBreakerStore) execute(fn func() (any, error)) (any, error) {
	result, err := s.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", s.name).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
		}

		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
		counts := s.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(float64(counts.ConsecutiveFailures))

		if isConnectionError(err) {
			return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(0)
	return result, nil
}

// call is execute for functions returning a typed value.
func call[T any](s *CircuitBreakerStore, fn func() (T, error)) (T, error) {
	var zero T
	result, err := s.execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func (s *CircuitBreakerStore) Ping(ctx context.Context) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.store.Ping(ctx)
	})
	return err
}

func (s *CircuitBreakerStore) InsertTransaction(ctx context.Context, id string, items []mining.Item) (string, error) {
	return call(s, func() (string, error) {
		return s.store.InsertTransaction(ctx, id, items)
	})
}

func (s *CircuitBreakerStore) CountTransactions(ctx context.Context) (int, error) {
	return call(s, func() (int, error) {
		return s.store.CountTransactions(ctx)
	})
}

func (s *CircuitBreakerStore) FetchTransactions(ctx context.Context, limit int) ([]mining.Transaction, error) {
	return call(s, func() ([]mining.Transaction, error) {
		return s.store.FetchTransactions(ctx, limit)
	})
}

func (s *CircuitBreakerStore) PopularItems(ctx context.Context, exclude []string, limit int) ([]models.ItemPopularity, error) {
	return call(s, func() ([]models.ItemPopularity, error) {
		return s.store.PopularItems(ctx, exclude, limit)
	})
}

func (s *CircuitBreakerStore) ReplaceRules(ctx context.Context, rules []mining.Rule, createdAt time.Time) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.store.ReplaceRules(ctx, rules, createdAt)
	})
	return err
}

func (s *CircuitBreakerStore) CountRules(ctx context.Context) (int, error) {
	return call(s, func() (int, error) {
		return s.store.CountRules(ctx)
	})
}

func (s *CircuitBreakerStore) ListRules(ctx context.Context, q models.RuleQuery) (*models.RulePage, error) {
	return call(s, func() (*models.RulePage, error) {
		return s.store.ListRules(ctx, q)
	})
}

func (s *CircuitBreakerStore) RulesByAntecedents(ctx context.Context, productIDs []string, limit int) ([]models.AssociationRule, error) {
	return call(s, func() ([]models.AssociationRule, error) {
		return s.store.RulesByAntecedents(ctx, productIDs, limit)
	})
}
