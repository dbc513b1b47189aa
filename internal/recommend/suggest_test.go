// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/basketrules/internal/mining"
	"github.com/tomtom215/basketrules/internal/models"
)

// suggestionStore has purchase counts f=4, b=3, e=2, a=1 and three rules,
// two of which have a in their antecedents.
func suggestionStore() *fakeStore {
	a, b, c, d, e, f := oid("a"), oid("b"), oid("c"), oid("d"), oid("e"), oid("f")
	s := newFakeStore(
		[]string{f, b},
		[]string{f, b},
		[]string{f, e},
		[]string{f, e},
		[]string{b, a},
	)
	s.rules = []models.AssociationRule{
		{ID: "r1", Antecedents: []string{a}, Consequents: []string{b}, Support: 0.2, Confidence: 1, Lift: 3},
		{ID: "r2", Antecedents: []string{a, d}, Consequents: []string{b, c}, Support: 0.1, Confidence: 0.5, Lift: 2},
		{ID: "r3", Antecedents: []string{e}, Consequents: []string{f}, Support: 0.4, Confidence: 1, Lift: 5},
	}
	return s
}

func TestEngine_Suggest(t *testing.T) {
	ctx := context.Background()
	a, b, c, e, f := oid("a"), oid("b"), oid("c"), oid("e"), oid("f")

	tests := []struct {
		name          string
		ids           []string
		limit         int
		want          []string
		wantFromRules int
	}{
		{
			name:          "rules first then popular",
			ids:           []string{a},
			limit:         4,
			want:          []string{b, c, f, e},
			wantFromRules: 2,
		},
		{
			name:          "limit reached by rules",
			ids:           []string{a},
			limit:         1,
			want:          []string{b},
			wantFromRules: 1,
		},
		{
			name:          "empty basket is popular only",
			ids:           nil,
			limit:         2,
			want:          []string{f, b},
			wantFromRules: 0,
		},
		{
			name:          "input products are never suggested",
			ids:           []string{e, f},
			limit:         3,
			want:          []string{b, a},
			wantFromRules: 0,
		},
		{
			name:          "blank ids ignored",
			ids:           []string{"", "  "},
			limit:         1,
			want:          []string{f},
			wantFromRules: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t, suggestionStore(), nil)

			got, err := engine.Suggest(ctx, tt.ids, tt.limit)
			if err != nil {
				t.Fatalf("Suggest() error = %v", err)
			}
			if strings.Join(got.ProductIDs, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ProductIDs = %v, want %v", got.ProductIDs, tt.want)
			}
			if got.FromRules != tt.wantFromRules {
				t.Errorf("FromRules = %d, want %d", got.FromRules, tt.wantFromRules)
			}
		})
	}
}

func TestEngine_SuggestDefaultsAndCaps(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t, suggestionStore(), nil)

	got, err := engine.Suggest(ctx, []string{oid("a")}, 0)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	// Six distinct products exist; a is excluded, d was never purchased.
	if len(got.ProductIDs) != 4 {
		t.Errorf("default limit returned %v", got.ProductIDs)
	}

	if _, err := engine.Suggest(ctx, nil, MaxSuggestionLimit+50); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if _, ok := engine.suggestions.Get(suggestionKey(nil, MaxSuggestionLimit)); !ok {
		t.Error("oversized limit was not capped")
	}
}

func TestEngine_SuggestInvalidID(t *testing.T) {
	engine, _ := newTestEngine(t, suggestionStore(), nil)

	_, err := engine.Suggest(context.Background(), []string{oid("a"), "xyz"}, 3)
	if !errors.Is(err, mining.ErrInvalidItem) {
		t.Errorf("Suggest() error = %v, want ErrInvalidItem", err)
	}
}

func TestEngine_SuggestCache(t *testing.T) {
	ctx := context.Background()
	store := suggestionStore()
	engine, _ := newTestEngine(t, store, nil)

	first, err := engine.Suggest(ctx, []string{oid("a"), oid("d")}, 3)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if store.lookups() != 1 {
		t.Fatalf("rule lookups = %d, want 1", store.lookups())
	}

	// Same basket in a different order and case is served from cache.
	second, err := engine.Suggest(ctx, []string{strings.ToUpper(oid("d")), oid("a"), oid("a")}, 3)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if store.lookups() != 1 {
		t.Errorf("rule lookups = %d after cached call, want 1", store.lookups())
	}
	if strings.Join(first.ProductIDs, ",") != strings.Join(second.ProductIDs, ",") {
		t.Errorf("cached result %v differs from %v", second.ProductIDs, first.ProductIDs)
	}

	// Callers own the returned slice.
	second.ProductIDs[0] = "mutated"
	third, err := engine.Suggest(ctx, []string{oid("a"), oid("d")}, 3)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if third.ProductIDs[0] == "mutated" {
		t.Error("cached suggestion was mutated through a returned slice")
	}

	engine.InvalidateSuggestions()
	if _, err := engine.Suggest(ctx, []string{oid("a"), oid("d")}, 3); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if store.lookups() != 2 {
		t.Errorf("rule lookups = %d after invalidation, want 2", store.lookups())
	}
}

func TestNormalizeBasket(t *testing.T) {
	got, err := normalizeBasket([]string{oid("B"), " ", oid("a"), oid("b")})
	if err != nil {
		t.Fatalf("normalizeBasket() error = %v", err)
	}
	want := []string{oid("a"), oid("b")}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("normalizeBasket() = %v, want %v", got, want)
	}
}
