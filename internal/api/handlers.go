// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package api

import (
	"context"
	"time"

	"github.com/tomtom215/basketrules/internal/config"
	"github.com/tomtom215/basketrules/internal/mining"
	"github.com/tomtom215/basketrules/internal/models"
	"github.com/tomtom215/basketrules/internal/recommend"
	"github.com/tomtom215/basketrules/internal/runlog"
)

// Version is reported by the health endpoint; set at build time.
var Version = "dev"

// Engine is the service surface the handlers depend on.
// *recommend.Engine implements it.
type Engine interface {
	DefaultParams() mining.Params
	Generate(ctx context.Context, trigger string, params mining.Params) (*runlog.Run, error)
	Status(ctx context.Context) (*recommend.Status, error)
	Runs(ctx context.Context, limit int) ([]*runlog.Run, error)
	ListRules(ctx context.Context, q models.RuleQuery) (*models.RulePage, error)
	Suggest(ctx context.Context, ids []string, limit int) (*models.Suggestion, error)
	AddTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.CreateTransactionResponse, error)
}

// Pinger reports store connectivity for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_health.go: health probes
//   - handlers_recommend.go: mining runs and run history
//   - handlers_rules.go: rule paging and suggestions
//   - handlers_transactions.go: purchase ingestion
type Handler struct {
	engine    Engine
	store     Pinger
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a handler.
func NewHandler(engine Engine, store Pinger, cfg *config.Config) *Handler {
	return &Handler{
		engine:    engine,
		store:     store,
		config:    cfg,
		startTime: time.Now(),
	}
}

var _ Engine = (*recommend.Engine)(nil)
