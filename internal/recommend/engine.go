// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/basketrules/internal/cache"
	"github.com/tomtom215/basketrules/internal/config"
	"github.com/tomtom215/basketrules/internal/database"
	"github.com/tomtom215/basketrules/internal/events"
	"github.com/tomtom215/basketrules/internal/logging"
	"github.com/tomtom215/basketrules/internal/metrics"
	"github.com/tomtom215/basketrules/internal/mining"
	"github.com/tomtom215/basketrules/internal/models"
	"github.com/tomtom215/basketrules/internal/runlog"
)

// ErrRunInProgress is returned when a mining run is requested while another
// one is executing.
var ErrRunInProgress = errors.New("mining run already in progress")

// Run results reported to metrics.
const (
	resultPersisted = "persisted"
	resultEmpty     = "empty"
	resultRejected  = "rejected"
	resultFailed    = "failed"
)

// RunHistory records finished mining runs. *runlog.Log implements it.
type RunHistory interface {
	Record(ctx context.Context, run *runlog.Run) error
	List(ctx context.Context, limit int) ([]*runlog.Run, error)
	Latest(ctx context.Context) (*runlog.Run, error)
}

// Publisher announces rule replacement. *events.Bus implements it.
type Publisher interface {
	PublishRulesReplaced(ctx context.Context, evt events.RulesReplaced) error
}

// Engine coordinates mining runs and suggestion lookups.
// It is safe for concurrent use.
type Engine struct {
	store     database.Store
	runs      RunHistory
	publisher Publisher
	pipeline  *mining.Pipeline

	mining     config.MiningConfig
	suggestion config.SuggestionConfig

	suggestions *cache.LRUCache[models.Suggestion]
	logger      zerolog.Logger

	runMu     sync.Mutex
	running   atomic.Bool
	currentID atomic.Value // string
}

// NewEngine creates an engine. publisher may be nil. The suggestion cache is
// flushed directly after rules are replaced either way.
func NewEngine(store database.Store, runs RunHistory, publisher Publisher, cfg *config.Config) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if runs == nil {
		return nil, fmt.Errorf("run history is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	workers := cfg.Mining.Workers
	if workers < 1 {
		workers = 1
	}

	e := &Engine{
		store:     store,
		runs:      runs,
		publisher: publisher,
		pipeline: mining.NewPipeline(mining.PipelineConfig{
			Workers:    workers,
			SinglePath: cfg.Mining.SinglePath,
		}),
		mining:      cfg.Mining,
		suggestion:  cfg.Suggestion,
		suggestions: cache.NewLRUCache[models.Suggestion](cfg.Suggestion.CacheSize, cfg.Suggestion.CacheTTL),
		logger:      logging.WithComponent("recommend"),
	}
	e.currentID.Store("")
	return e, nil
}

// DefaultParams returns the configured thresholds.
func (e *Engine) DefaultParams() mining.Params {
	return mining.Params{
		MinSupport:    e.mining.MinSupport,
		MinConfidence: e.mining.MinConfidence,
	}
}

// Generate executes one mining run. The returned run has Persisted=false
// when no rule met the thresholds; the stored rules are then unchanged.
func (e *Engine) Generate(ctx context.Context, trigger string, params mining.Params) (*runlog.Run, error) {
	if err := params.Validate(); err != nil {
		metrics.RecordMiningRun(trigger, resultRejected, 0, 0, 0, 0)
		return nil, err
	}

	if !e.runMu.TryLock() {
		metrics.RecordMiningRun(trigger, resultRejected, 0, 0, 0, 0)
		return nil, ErrRunInProgress
	}
	defer e.runMu.Unlock()

	run := &runlog.Run{
		ID:            uuid.New().String(),
		Trigger:       trigger,
		StartedAt:     time.Now().UTC(),
		MinSupport:    params.MinSupport,
		MinConfidence: params.MinConfidence,
	}

	e.running.Store(true)
	e.currentID.Store(run.ID)
	defer func() {
		e.currentID.Store("")
		e.running.Store(false)
	}()

	ctx = logging.ContextWithRunID(ctx, run.ID)
	logger := e.logger.With().
		Str("run_id", run.ID).
		Str("trigger", trigger).
		Logger()

	logger.Info().
		Float64("min_support", params.MinSupport).
		Float64("min_confidence", params.MinConfidence).
		Msg("Mining run started")

	runErr := e.execute(ctx, run, params)
	run.FinishedAt = time.Now().UTC()
	if runErr != nil {
		run.Error = runErr.Error()
	}

	// Record even when the run context was cancelled or timed out.
	if err := e.runs.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn().Err(err).Msg("Failed to record mining run")
	}

	if runErr != nil {
		metrics.RecordMiningRun(trigger, resultFailed, run.Duration(), 0, 0, 0)
		logger.Error().Err(runErr).Dur("duration", run.Duration()).Msg("Mining run failed")
		return nil, runErr
	}

	result := resultEmpty
	if run.Persisted {
		result = resultPersisted
		e.announce(ctx, run, logger)
	}
	metrics.RecordMiningRun(trigger, result, run.Duration(), run.Transactions, run.Itemsets, run.Rules)

	logger.Info().
		Int("transactions", run.Transactions).
		Int("items", run.Items).
		Int("itemsets", run.Itemsets).
		Int("rules", run.Rules).
		Bool("persisted", run.Persisted).
		Dur("duration", run.Duration()).
		Msg("Mining run finished")

	return run, nil
}

// execute fills run with the pipeline outcome and persists the rules.
func (e *Engine) execute(ctx context.Context, run *runlog.Run, params mining.Params) error {
	if e.mining.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.mining.RunTimeout)
		defer cancel()
	}

	transactions, err := e.store.FetchTransactions(ctx, e.mining.MaxTransactions)
	if err != nil {
		return fmt.Errorf("fetch transactions: %w", err)
	}

	result, err := e.pipeline.Run(ctx, transactions, params)
	if err != nil {
		return fmt.Errorf("mine rules: %w", err)
	}

	run.Transactions = result.TransactionCount
	run.Items = result.ItemCount
	run.Itemsets = len(result.Itemsets)
	run.Rules = len(result.Rules)

	if len(result.Rules) == 0 {
		return nil
	}

	if err := e.store.ReplaceRules(ctx, result.Rules, time.Now().UTC()); err != nil {
		return fmt.Errorf("replace rules: %w", err)
	}
	run.Persisted = true
	return nil
}

// announce flushes the suggestion cache and publishes rules.replaced.
func (e *Engine) announce(ctx context.Context, run *runlog.Run, logger zerolog.Logger) {
	// The bus drops messages while no subscriber is attached.
	e.InvalidateSuggestions()
	if e.publisher == nil {
		return
	}

	err := e.publisher.PublishRulesReplaced(ctx, events.RulesReplaced{
		RunID:      run.ID,
		Rules:      run.Rules,
		ReplacedAt: run.FinishedAt,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to publish rules.replaced")
	}
}

// Status is a snapshot of the engine state.
type Status struct {
	Running      bool        `json:"running"`
	CurrentRunID string      `json:"current_run_id,omitempty"`
	LastRun      *runlog.Run `json:"last_run,omitempty"`
	StoredRules  int         `json:"stored_rules"`
	Transactions int         `json:"transactions"`
	CachedBasket int         `json:"cached_suggestions"`
}

// Status reports whether a run is executing, the last recorded run and the
// current store sizes.
func (e *Engine) Status(ctx context.Context) (*Status, error) {
	last, err := e.runs.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}

	rules, err := e.store.CountRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("count rules: %w", err)
	}

	transactions, err := e.store.CountTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	currentID, _ := e.currentID.Load().(string)
	return &Status{
		Running:      e.running.Load(),
		CurrentRunID: currentID,
		LastRun:      last,
		StoredRules:  rules,
		Transactions: transactions,
		CachedBasket: e.suggestions.Len(),
	}, nil
}

// IsRunning reports whether a mining run is executing.
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// Runs returns up to limit recorded runs, newest first.
func (e *Engine) Runs(ctx context.Context, limit int) ([]*runlog.Run, error) {
	return e.runs.List(ctx, limit)
}

// ListRules returns one page of stored rules.
func (e *Engine) ListRules(ctx context.Context, q models.RuleQuery) (*models.RulePage, error) {
	return e.store.ListRules(ctx, q)
}

// AddTransaction stores one purchase. Product IDs must be object
// identifiers; duplicates within the purchase are collapsed.
func (e *Engine) AddTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.CreateTransactionResponse, error) {
	items, err := mining.ParseItems(req.ProductIDs)
	if err != nil {
		return nil, err
	}

	id, err := e.store.InsertTransaction(ctx, req.ID, items)
	if err != nil {
		return nil, err
	}

	stored := mining.NewTransaction(items...)
	productIDs := make([]string, len(stored))
	for i, item := range stored {
		productIDs[i] = string(item)
	}

	logging.Ctx(ctx).Debug().
		Str("transaction_id", id).
		Int("items", len(productIDs)).
		Msg("Transaction stored")

	return &models.CreateTransactionResponse{ID: id, ProductIDs: productIDs}, nil
}

// InvalidateSuggestions drops every cached suggestion.
func (e *Engine) InvalidateSuggestions() {
	e.suggestions.Clear()
	metrics.SuggestionCacheInvalidations.Inc()
	e.logger.Debug().Msg("Suggestion cache cleared")
}

// HandleRulesReplaced is the rules.replaced subscriber callback.
func (e *Engine) HandleRulesReplaced(ctx context.Context, evt events.RulesReplaced) error {
	e.InvalidateSuggestions()
	logging.Ctx(ctx).Info().
		Str("run_id", evt.RunID).
		Int("rules", evt.Rules).
		Msg("Rules replaced, suggestion cache cleared")
	return nil
}
