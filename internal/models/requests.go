// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package models

// GenerateRulesRequest is the body of POST /api/v1/recommend-service.
// Omitted thresholds fall back to the configured defaults.
type GenerateRulesRequest struct {
	MinSupport    *float64 `json:"min_support" validate:"omitempty,gt=0,lte=1"`
	MinConfidence *float64 `json:"min_confidence" validate:"omitempty,gte=0,lte=1"`
}

// GenerateRulesResponse reports the outcome of a mining run. Created is false
// when no rule met the thresholds; the previously stored rules are then kept.
type GenerateRulesResponse struct {
	Created       bool    `json:"created"`
	RunID         string  `json:"run_id"`
	Transactions  int     `json:"transactions"`
	Itemsets      int     `json:"itemsets"`
	Rules         int     `json:"rules"`
	DurationMS    int64   `json:"duration_ms"`
	MinSupport    float64 `json:"min_support"`
	MinConfidence float64 `json:"min_confidence"`
}

// CreateTransactionRequest is the body of POST /api/v1/transactions.
type CreateTransactionRequest struct {
	ID         string   `json:"id" validate:"omitempty,max=64"`
	ProductIDs []string `json:"product_ids" validate:"required,min=1,max=1000,dive,objectid"`
}

// CreateTransactionResponse echoes the stored transaction.
type CreateTransactionResponse struct {
	ID         string   `json:"id"`
	ProductIDs []string `json:"product_ids"`
}
