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

const (
	defaultRulePageSize = 20
	ruleColumns         = `id, antecedent_support, consequent_support, support, confidence, lift, created_at`
)

// ruleSortColumns whitelists sortable columns. Anything else falls back to support.
var ruleSortColumns = map[string]string{
	models.RuleSortSupport:           "support",
	models.RuleSortConfidence:        "confidence",
	models.RuleSortLift:              "lift",
	models.RuleSortAntecedentSupport: "antecedent_support",
	models.RuleSortConsequentSupport: "consequent_support",
	models.RuleSortCreatedAt:         "created_at",
}

// ReplaceRules swaps the stored rule set for rules in one SQL transaction.
// Every rule gets a new ID and createdAt as its creation time.
func (db *DB) ReplaceRules(ctx context.Context, rules []mining.Rule, createdAt time.Time) error {
	start := time.Now()
	var err error
	defer func() { metrics.RecordDBQuery("REPLACE", "association_rules", time.Since(start), err) }()

	var tx *sql.Tx
	tx, err = db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err = tx.ExecContext(ctx, `DELETE FROM association_rule_items`); err != nil {
		return fmt.Errorf("failed to clear rule items: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM association_rules`); err != nil {
		return fmt.Errorf("failed to clear rules: %w", err)
	}

	var ruleStmt, itemStmt *sql.Stmt
	ruleStmt, err = tx.PrepareContext(ctx, `INSERT INTO association_rules (`+ruleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare rule insert: %w", err)
	}
	defer closeWithLog(ruleStmt, "prepared statement")

	itemStmt, err = tx.PrepareContext(ctx, `INSERT INTO association_rule_items (rule_id, product_id, side) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare rule item insert: %w", err)
	}
	defer closeWithLog(itemStmt, "prepared statement")

	createdAt = createdAt.UTC()
	for i := range rules {
		if err = ctx.Err(); err != nil {
			return err
		}
		rule := &rules[i]
		id := uuid.New().String()
		if _, err = ruleStmt.ExecContext(ctx, id,
			rule.AntecedentSupport, rule.ConsequentSupport,
			rule.Support, rule.Confidence, rule.Lift, createdAt,
		); err != nil {
			return fmt.Errorf("failed to insert rule: %w", err)
		}
		for _, item := range rule.Antecedents {
			if _, err = itemStmt.ExecContext(ctx, id, string(item), sideAntecedent); err != nil {
				return fmt.Errorf("failed to insert rule antecedent: %w", err)
			}
		}
		for _, item := range rule.Consequents {
			if _, err = itemStmt.ExecContext(ctx, id, string(item), sideConsequent); err != nil {
				return fmt.Errorf("failed to insert rule consequent: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rules: %w", err)
	}
	return nil
}

// CountRules returns the number of stored rules.
func (db *DB) CountRules(ctx context.Context) (int, error) {
	start := time.Now()
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM association_rules`).Scan(&count)
	metrics.RecordDBQuery("SELECT", "association_rules", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return count, nil
}

// ListRules returns one page of stored rules with their product ids.
// PageIndex is one based; zero values select the first page of
// defaultRulePageSize rules sorted by support descending.
func (db *DB) ListRules(ctx context.Context, q models.RuleQuery) (*models.RulePage, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordDBQuery("SELECT", "association_rules", time.Since(start), err) }()

	pageIndex := q.PageIndex
	if pageIndex < 1 {
		pageIndex = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = defaultRulePageSize
	}
	column, ok := ruleSortColumns[q.Sort]
	if !ok {
		column = "support"
	}
	direction := "DESC"
	if strings.EqualFold(q.Direction, "asc") {
		direction = "ASC"
	}

	var total int
	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM association_rules`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count rules: %w", err)
	}

	// column and direction come from the whitelist above.
	query := fmt.Sprintf(`SELECT %s FROM association_rules ORDER BY %s %s, id ASC LIMIT ? OFFSET ?`,
		ruleColumns, column, direction)

	var rules []models.AssociationRule
	rules, err = db.queryRules(ctx, query, pageSize, (pageIndex-1)*pageSize)
	if err != nil {
		return nil, err
	}

	return &models.RulePage{Data: rules, Total: total}, nil
}

// RulesByAntecedents returns up to limit rules whose antecedents contain any
// of productIDs, strongest first: lift, then confidence, then support.
func (db *DB) RulesByAntecedents(ctx context.Context, productIDs []string, limit int) ([]models.AssociationRule, error) {
	if len(productIDs) == 0 || limit <= 0 {
		return []models.AssociationRule{}, nil
	}

	start := time.Now()
	var err error
	defer func() { metrics.RecordDBQuery("SELECT", "association_rule_items", time.Since(start), err) }()

	query := fmt.Sprintf(`
		SELECT %s
		FROM association_rules
		WHERE id IN (
			SELECT rule_id FROM association_rule_items
			WHERE side = ? AND product_id IN (%s)
		)
		ORDER BY lift DESC, confidence DESC, support DESC, id ASC
		LIMIT ?`, ruleColumns, placeholders(len(productIDs)))

	args := make([]interface{}, 0, len(productIDs)+2)
	args = append(args, sideAntecedent)
	for _, id := range productIDs {
		args = append(args, id)
	}
	args = append(args, limit)

	var rules []models.AssociationRule
	rules, err = db.queryRules(ctx, query, args...)
	return rules, err
}

// queryRules runs a rule SELECT returning ruleColumns and attaches items.
func (db *DB) queryRules(ctx context.Context, query string, args ...interface{}) ([]models.AssociationRule, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer closeWithLog(rows, "rows")

	rules := []models.AssociationRule{}
	for rows.Next() {
		var r models.AssociationRule
		if err := rows.Scan(&r.ID, &r.AntecedentSupport, &r.ConsequentSupport,
			&r.Support, &r.Confidence, &r.Lift, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		r.Antecedents = []string{}
		r.Consequents = []string{}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	if err := db.loadRuleItems(ctx, rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// loadRuleItems fills Antecedents and Consequents, each sorted.
func (db *DB) loadRuleItems(ctx context.Context, rules []models.AssociationRule) error {
	if len(rules) == 0 {
		return nil
	}

	byID := make(map[string]*models.AssociationRule, len(rules))
	args := make([]interface{}, 0, len(rules))
	for i := range rules {
		byID[rules[i].ID] = &rules[i]
		args = append(args, rules[i].ID)
	}

	query := fmt.Sprintf(`
		SELECT rule_id, product_id, side
		FROM association_rule_items
		WHERE rule_id IN (%s)
		ORDER BY rule_id, side, product_id`, placeholders(len(rules)))

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query rule items: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var ruleID, productID, side string
		if err := rows.Scan(&ruleID, &productID, &side); err != nil {
			return fmt.Errorf("failed to scan rule item: %w", err)
		}
		rule, ok := byID[ruleID]
		if !ok {
			continue
		}
		switch side {
		case sideAntecedent:
			rule.Antecedents = append(rule.Antecedents, productID)
		case sideConsequent:
			rule.Consequents = append(rule.Consequents, productID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rule items: %w", err)
	}
	return nil
}
