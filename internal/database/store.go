// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package database

import (
	"context"
	"time"

	"github.com/tomtom215/basketrules/internal/mining"
	"github.com/tomtom215/basketrules/internal/models"
)

// Store is the data access surface used by the service layer.
// *DB and *CircuitBreakerStore both implement it.
type Store interface {
	Ping(ctx context.Context) error

	InsertTransaction(ctx context.Context, id string, items []mining.Item) (string, error)
	CountTransactions(ctx context.Context) (int, error)
	FetchTransactions(ctx context.Context, limit int) ([]mining.Transaction, error)
	PopularItems(ctx context.Context, exclude []string, limit int) ([]models.ItemPopularity, error)

	ReplaceRules(ctx context.Context, rules []mining.Rule, createdAt time.Time) error
	CountRules(ctx context.Context) (int, error)
	ListRules(ctx context.Context, q models.RuleQuery) (*models.RulePage, error)
	RulesByAntecedents(ctx context.Context, productIDs []string, limit int) ([]models.AssociationRule, error)
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*CircuitBreakerStore)(nil)
)
