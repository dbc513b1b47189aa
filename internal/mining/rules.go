// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package mining

import (
	"context"
	"fmt"
	"sort"
)

// maxRuleItemsetSize bounds the subset enumeration mask.
const maxRuleItemsetSize = 62

// confidenceEpsilon keeps exact ratios such as 1/2 from failing a 0.5
// threshold through rounding.
const confidenceEpsilon = 1e-12

// Rule is a scored association rule: transactions holding Antecedents also
// tend to hold Consequents.
type Rule struct {
	Antecedents       []Item  `json:"antecedents"`
	Consequents       []Item  `json:"consequents"`
	AntecedentSupport float64 `json:"antecedentSupport"`
	ConsequentSupport float64 `json:"consequentSupport"`
	Support           float64 `json:"support"`
	Confidence        float64 `json:"confidence"`
	Lift              float64 `json:"lift"`
}

// GenerateRules splits every itemset of size two or more into each non-empty
// antecedent and its complement, keeping rules whose confidence is at least
// minConfidence. Every subset of an input itemset must also be present, which
// holds for any Miner output.
func GenerateRules(ctx context.Context, itemsets []Itemset, minConfidence float64) ([]Rule, error) {
	if err := validateMinConfidence(minConfidence); err != nil {
		return nil, err
	}

	support := make(map[string]Itemset, len(itemsets))
	for _, s := range itemsets {
		support[s.Key()] = s
	}

	rules := make([]Rule, 0)
	for _, s := range itemsets {
		k := len(s.Items)
		if k < 2 {
			continue
		}
		if k > maxRuleItemsetSize {
			return nil, fmt.Errorf("itemset of %d items exceeds rule generation limit %d", k, maxRuleItemsetSize)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		full := uint64(1)<<uint(k) - 1
		for mask := uint64(1); mask < full; mask++ {
			antecedents, consequents := splitItems(s.Items, mask)

			a, ok := support[itemsKey(antecedents)]
			if !ok {
				return nil, fmt.Errorf("%w: missing %v", ErrIncompleteItemsets, antecedents)
			}
			c, ok := support[itemsKey(consequents)]
			if !ok {
				return nil, fmt.Errorf("%w: missing %v", ErrIncompleteItemsets, consequents)
			}

			confidence := float64(s.Count) / float64(a.Count)
			if confidence+confidenceEpsilon < minConfidence {
				continue
			}
			rules = append(rules, Rule{
				Antecedents:       antecedents,
				Consequents:       consequents,
				AntecedentSupport: a.Support,
				ConsequentSupport: c.Support,
				Support:           s.Support,
				Confidence:        confidence,
				Lift:              confidence / c.Support,
			})
		}
	}

	SortRules(rules)
	return rules, nil
}

// splitItems partitions items by mask: set bits go to the antecedent side.
// Both sides keep the input's sorted order.
func splitItems(items []Item, mask uint64) (antecedents, consequents []Item) {
	for i, item := range items {
		if mask&(1<<uint(i)) != 0 {
			antecedents = append(antecedents, item)
		} else {
			consequents = append(consequents, item)
		}
	}
	return antecedents, consequents
}

// SortRules orders rules by support, confidence and lift (descending), then
// by antecedents and consequents.
func SortRules(rules []Rule) {
	sort.Slice(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Lift != b.Lift {
			return a.Lift > b.Lift
		}
		if c := compareItems(a.Antecedents, b.Antecedents); c != 0 {
			return c < 0
		}
		return compareItems(a.Consequents, b.Consequents) < 0
	})
}
