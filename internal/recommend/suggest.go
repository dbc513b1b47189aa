// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set"

	"github.com/tomtom215/basketrules/internal/metrics"
	"github.com/tomtom215/basketrules/internal/mining"
	"github.com/tomtom215/basketrules/internal/models"
)

// MaxSuggestionLimit caps the number of suggestions per request.
const MaxSuggestionLimit = 100

// Suggest returns up to limit products for the basket identified by ids.
// limit <= 0 selects the configured default. An empty basket yields only
// popular products.
func (e *Engine) Suggest(ctx context.Context, ids []string, limit int) (*models.Suggestion, error) {
	if limit <= 0 {
		limit = e.suggestion.Limit
	}
	if limit > MaxSuggestionLimit {
		limit = MaxSuggestionLimit
	}

	basket, err := normalizeBasket(ids)
	if err != nil {
		return nil, err
	}

	key := suggestionKey(basket, limit)
	if cached, ok := e.suggestions.Get(key); ok {
		metrics.RecordSuggestionCache(true)
		return copySuggestion(cached), nil
	}
	metrics.RecordSuggestionCache(false)

	suggestion, err := e.assembleSuggestion(ctx, basket, limit)
	if err != nil {
		return nil, err
	}

	e.suggestions.Add(key, *suggestion)
	return copySuggestion(*suggestion), nil
}

// assembleSuggestion collects rule consequents first and popular products
// second, never repeating a product or returning one from the basket.
func (e *Engine) assembleSuggestion(ctx context.Context, basket []string, limit int) (*models.Suggestion, error) {
	input := mapset.NewThreadUnsafeSet()
	for _, id := range basket {
		input.Add(id)
	}
	chosen := mapset.NewThreadUnsafeSet()
	productIDs := make([]string, 0, limit)

	if len(basket) > 0 {
		rules, err := e.store.RulesByAntecedents(ctx, basket, limit)
		if err != nil {
			return nil, fmt.Errorf("rules by antecedents: %w", err)
		}

	collect:
		for _, rule := range rules {
			for _, id := range rule.Consequents {
				if len(productIDs) == limit {
					break collect
				}
				if input.Contains(id) || chosen.Contains(id) {
					continue
				}
				chosen.Add(id)
				productIDs = append(productIDs, id)
			}
		}
	}
	fromRules := len(productIDs)

	if remaining := limit - len(productIDs); remaining > 0 {
		exclude := setToStrings(input.Union(chosen))
		popular, err := e.store.PopularItems(ctx, exclude, remaining)
		if err != nil {
			return nil, fmt.Errorf("popular items: %w", err)
		}
		for _, p := range popular {
			productIDs = append(productIDs, p.ProductID)
		}
	}

	return &models.Suggestion{ProductIDs: productIDs, FromRules: fromRules}, nil
}

// normalizeBasket parses, lowercases and deduplicates ids, sorted so that
// baskets differing only in order share a cache entry.
func normalizeBasket(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	basket := make([]string, 0, len(ids))
	for _, raw := range ids {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		item, err := mining.ParseItem(raw)
		if err != nil {
			return nil, err
		}
		id := string(item)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		basket = append(basket, id)
	}
	sort.Strings(basket)
	return basket, nil
}

func suggestionKey(basket []string, limit int) string {
	return strings.Join(basket, ";") + "|" + strconv.Itoa(limit)
}

func setToStrings(s mapset.Set) []string {
	out := make([]string, 0, s.Cardinality())
	for _, v := range s.ToSlice() {
		out = append(out, v.(string))
	}
	sort.Strings(out)
	return out
}

func copySuggestion(s models.Suggestion) *models.Suggestion {
	ids := make([]string, len(s.ProductIDs))
	copy(ids, s.ProductIDs)
	return &models.Suggestion{ProductIDs: ids, FromRules: s.FromRules}
}
