// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package models

import (
	"time"
)

// AssociationRule is a persisted rule. Antecedents and Consequents hold
// product identifiers.
type AssociationRule struct {
	ID                string    `json:"id"`
	Antecedents       []string  `json:"antecedents"`
	Consequents       []string  `json:"consequents"`
	AntecedentSupport float64   `json:"antecedentSupport"`
	ConsequentSupport float64   `json:"consequentSupport"`
	Support           float64   `json:"support"`
	Confidence        float64   `json:"confidence"`
	Lift              float64   `json:"lift"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Rule sort columns accepted by RuleQuery.
const (
	RuleSortSupport           = "support"
	RuleSortConfidence        = "confidence"
	RuleSortLift              = "lift"
	RuleSortAntecedentSupport = "antecedentSupport"
	RuleSortConsequentSupport = "consequentSupport"
	RuleSortCreatedAt         = "createdAt"
)

// RuleQuery selects one page of stored rules. PageIndex is one based.
type RuleQuery struct {
	PageIndex int    `json:"pageIndex" validate:"gte=1"`
	PageSize  int    `json:"pageSize" validate:"gte=1,lte=500"`
	Sort      string `json:"sort" validate:"omitempty,oneof=support confidence lift antecedentSupport consequentSupport createdAt"`
	Direction string `json:"direction" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// RulePage is one page of rules plus the total rule count.
type RulePage struct {
	Data  []AssociationRule `json:"data"`
	Total int               `json:"total"`
}

// ItemPopularity is a product with the number of transactions containing it.
type ItemPopularity struct {
	ProductID    string `json:"productId"`
	Transactions int    `json:"transactions"`
}

// Suggestion lists products recommended for a set of input products.
// FromRules counts the leading entries that came from association rules; the
// rest are popular products used as filler.
type Suggestion struct {
	ProductIDs []string `json:"productIds"`
	FromRules  int      `json:"fromRules"`
}
