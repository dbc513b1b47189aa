// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package database

import (
	"context"
	"fmt"
)

// Rule item sides stored in association_rule_items.side.
const (
	sideAntecedent = "antecedent"
	sideConsequent = "consequent"
)

// createTables creates all tables and indexes. Statements are idempotent.
//
// association_rule_items deliberately has no primary key: DuckDB checks
// index constraints eagerly, and rule replacement deletes and inserts in one
// transaction.
func (db *DB) createTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id VARCHAR PRIMARY KEY,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transaction_items (
			transaction_id VARCHAR NOT NULL,
			product_id VARCHAR NOT NULL,
			PRIMARY KEY (transaction_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS association_rules (
			id VARCHAR PRIMARY KEY,
			antecedent_support DOUBLE NOT NULL,
			consequent_support DOUBLE NOT NULL,
			support DOUBLE NOT NULL,
			confidence DOUBLE NOT NULL,
			lift DOUBLE NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS association_rule_items (
			rule_id VARCHAR NOT NULL,
			product_id VARCHAR NOT NULL,
			side VARCHAR NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transaction_items_product ON transaction_items(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_rule_items_product_side ON association_rule_items(product_id, side)`,
		`CREATE INDEX IF NOT EXISTS idx_rule_items_rule ON association_rule_items(rule_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
