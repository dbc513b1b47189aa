// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/basketrules/internal/metrics"
	"github.com/tomtom215/basketrules/internal/mining"
	"github.com/tomtom215/basketrules/internal/models"
)

// InsertTransaction stores one purchase. An empty id is replaced by a new
// UUID; the stored id is returned. Duplicate products are stored once.
func (db *DB) InsertTransaction(ctx context.Context, id string, items []mining.Item) (string, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordDBQuery("INSERT", "transactions", time.Since(start), err) }()

	if id == "" {
		id = uuid.New().String()
	}

	var tx *sql.Tx
	tx, err = db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("failed to check transaction %s: %w", id, err)
	}
	if exists > 0 {
		return "", fmt.Errorf("%w: %s", ErrTransactionExists, id)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, created_at) VALUES (?, ?)`,
		id, time.Now().UTC(),
	); err != nil {
		return "", fmt.Errorf("failed to insert transaction %s: %w", id, err)
	}

	for _, item := range mining.NewTransaction(items...) {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO transaction_items (transaction_id, product_id) VALUES (?, ?)`,
			id, string(item),
		); err != nil {
			return "", fmt.Errorf("failed to insert item %s of transaction %s: %w", item, id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction %s: %w", id, err)
	}
	return id, nil
}

// CountTransactions returns the number of stored purchases.
func (db *DB) CountTransactions(ctx context.Context) (int, error) {
	start := time.Now()
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	metrics.RecordDBQuery("SELECT", "transactions", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// FetchTransactions returns every stored purchase as a mining transaction,
// oldest first. When limit > 0 only the most recent limit purchases are read.
// Purchases without products are returned as empty transactions.
func (db *DB) FetchTransactions(ctx context.Context, limit int) ([]mining.Transaction, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordDBQuery("SELECT", "transaction_items", time.Since(start), err) }()

	query := `
		SELECT t.id, ti.product_id
		FROM transactions t
		LEFT JOIN transaction_items ti ON ti.transaction_id = t.id
		ORDER BY t.created_at, t.id, ti.product_id`
	args := []interface{}{}
	if limit > 0 {
		query = `
			WITH recent AS (
				SELECT id, created_at
				FROM transactions
				ORDER BY created_at DESC, id DESC
				LIMIT ?
			)
			SELECT r.id, ti.product_id
			FROM recent r
			LEFT JOIN transaction_items ti ON ti.transaction_id = r.id
			ORDER BY r.created_at, r.id, ti.product_id`
		args = append(args, limit)
	}

	var rows *sql.Rows
	rows, err = db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var (
		txs       []mining.Transaction
		currentID string
		current   mining.Transaction
		started   bool
	)
	for rows.Next() {
		var id string
		var productID sql.NullString
		if err = rows.Scan(&id, &productID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction item: %w", err)
		}
		if !started || id != currentID {
			if started {
				txs = append(txs, current)
			}
			currentID = id
			current = mining.Transaction{}
			started = true
		}
		if productID.Valid {
			current = append(current, mining.Item(productID.String))
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	if started {
		txs = append(txs, current)
	}
	if txs == nil {
		txs = []mining.Transaction{}
	}
	return txs, nil
}

// PopularItems returns products ordered by the number of purchases that
// contain them, skipping the excluded ids.
func (db *DB) PopularItems(ctx context.Context, exclude []string, limit int) ([]models.ItemPopularity, error) {
	if limit <= 0 {
		return []models.ItemPopularity{}, nil
	}

	start := time.Now()
	var err error
	defer func() { metrics.RecordDBQuery("SELECT", "transaction_items", time.Since(start), err) }()

	var sb strings.Builder
	args := make([]interface{}, 0, len(exclude)+1)
	sb.WriteString(`SELECT product_id, COUNT(*) AS purchases FROM transaction_items`)
	if len(exclude) > 0 {
		sb.WriteString(` WHERE product_id NOT IN (`)
		sb.WriteString(placeholders(len(exclude)))
		sb.WriteString(`)`)
		for _, id := range exclude {
			args = append(args, id)
		}
	}
	sb.WriteString(` GROUP BY product_id ORDER BY purchases DESC, product_id ASC LIMIT ?`)
	args = append(args, limit)

	var rows *sql.Rows
	rows, err = db.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular items: %w", err)
	}
	defer closeWithLog(rows, "rows")

	items := make([]models.ItemPopularity, 0, limit)
	for rows.Next() {
		var item models.ItemPopularity
		if err = rows.Scan(&item.ProductID, &item.Transactions); err != nil {
			return nil, fmt.Errorf("failed to scan popular item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating popular items: %w", err)
	}
	return items, nil
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
