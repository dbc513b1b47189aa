// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package mining

import (
	"context"
	"errors"
	"math"
	"testing"
)

func ruleKey(r Rule) string {
	return itemsKey(r.Antecedents) + "=>" + itemsKey(r.Consequents)
}

func mustMine(t *testing.T, txs []Transaction, minSupport float64) []Itemset {
	t.Helper()
	itemsets, err := NewMiner().Mine(context.Background(), Encode(txs), minSupport)
	if err != nil {
		t.Fatalf("Mine() error: %v", err)
	}
	return itemsets
}

func TestGenerateRulesScenario(t *testing.T) {
	rules, err := GenerateRules(context.Background(), mustMine(t, scenarioTransactions(), 0.5), 0.5)
	if err != nil {
		t.Fatalf("GenerateRules() error: %v", err)
	}

	tests := []struct {
		antecedent Item
		consequent Item
		confidence float64
		lift       float64
		antSupport float64
		conSupport float64
	}{
		{antecedent: "A", consequent: "B", confidence: 2.0 / 3.0, lift: 1.0, antSupport: 1.0, conSupport: 2.0 / 3.0},
		{antecedent: "B", consequent: "A", confidence: 1.0, lift: 1.0, antSupport: 2.0 / 3.0, conSupport: 1.0},
	}
	if len(rules) != len(tests) {
		t.Fatalf("generated %d rules, want %d", len(rules), len(tests))
	}

	byKey := make(map[string]Rule)
	for _, r := range rules {
		byKey[ruleKey(r)] = r
	}
	for _, tt := range tests {
		r, ok := byKey[string(tt.antecedent)+"=>"+string(tt.consequent)]
		if !ok {
			t.Errorf("rule %s -> %s missing", tt.antecedent, tt.consequent)
			continue
		}
		checks := []struct {
			field string
			got   float64
			want  float64
		}{
			{"confidence", r.Confidence, tt.confidence},
			{"lift", r.Lift, tt.lift},
			{"antecedentSupport", r.AntecedentSupport, tt.antSupport},
			{"consequentSupport", r.ConsequentSupport, tt.conSupport},
			{"support", r.Support, 2.0 / 3.0},
		}
		for _, c := range checks {
			if math.Abs(c.got-c.want) > floatTolerance {
				t.Errorf("%s -> %s %s = %f, want %f", tt.antecedent, tt.consequent, c.field, c.got, c.want)
			}
		}
	}
}

func TestGenerateRulesConfidenceFormula(t *testing.T) {
	txs := randomTransactions(21, 60, 7, 0.5)
	itemsets := mustMine(t, txs, 0.05)
	support := make(map[string]float64)
	for _, s := range itemsets {
		support[s.Key()] = s.Support
	}

	const minConfidence = 0.4
	rules, err := GenerateRules(context.Background(), itemsets, minConfidence)
	if err != nil {
		t.Fatalf("GenerateRules() error: %v", err)
	}
	if len(rules) == 0 {
		t.Fatal("no rules generated; dataset too sparse for this test")
	}

	for _, r := range rules {
		union := append(append([]Item(nil), r.Antecedents...), r.Consequents...)
		sortItems(union)
		want := support[itemsKey(union)] / support[itemsKey(r.Antecedents)]
		if math.Abs(r.Confidence-want) > floatTolerance {
			t.Errorf("rule %s confidence = %f, want %f", ruleKey(r), r.Confidence, want)
		}
		if r.Confidence < minConfidence-floatTolerance {
			t.Errorf("rule %s confidence %f below threshold", ruleKey(r), r.Confidence)
		}
		if r.Confidence > 1+floatTolerance {
			t.Errorf("rule %s confidence %f above 1", ruleKey(r), r.Confidence)
		}
		if r.Lift < 0 {
			t.Errorf("rule %s lift %f negative", ruleKey(r), r.Lift)
		}
		wantLift := r.Confidence / support[itemsKey(r.Consequents)]
		if math.Abs(r.Lift-wantLift) > floatTolerance {
			t.Errorf("rule %s lift = %f, want %f", ruleKey(r), r.Lift, wantLift)
		}
		for _, a := range r.Antecedents {
			for _, c := range r.Consequents {
				if a == c {
					t.Errorf("rule %s shares item %q", ruleKey(r), a)
				}
			}
		}
	}
}

func TestGenerateRulesZeroConfidenceEmitsEverySplit(t *testing.T) {
	itemsets := mustMine(t, randomTransactions(31, 30, 6, 0.6), 0.1)

	want := 0
	for _, s := range itemsets {
		if k := len(s.Items); k >= 2 {
			want += 1<<k - 2
		}
	}

	rules, err := GenerateRules(context.Background(), itemsets, 0)
	if err != nil {
		t.Fatalf("GenerateRules() error: %v", err)
	}
	if len(rules) != want {
		t.Errorf("generated %d rules, want %d", len(rules), want)
	}

	seen := make(map[string]bool)
	for _, r := range rules {
		if seen[ruleKey(r)] {
			t.Errorf("rule %s emitted twice", ruleKey(r))
		}
		seen[ruleKey(r)] = true
	}
}

func TestGenerateRulesEmptyInput(t *testing.T) {
	rules, err := GenerateRules(context.Background(), nil, 0.5)
	if err != nil {
		t.Fatalf("GenerateRules() error: %v", err)
	}
	if rules == nil || len(rules) != 0 {
		t.Errorf("GenerateRules(nil) = %v, want empty non-nil slice", rules)
	}
}

func TestGenerateRulesSingletonsOnly(t *testing.T) {
	itemsets := []Itemset{
		{Items: []Item{"a"}, Count: 1, Support: 0.5},
		{Items: []Item{"b"}, Count: 1, Support: 0.5},
	}
	rules, err := GenerateRules(context.Background(), itemsets, 0)
	if err != nil {
		t.Fatalf("GenerateRules() error: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("generated %d rules from singletons, want 0", len(rules))
	}
}

func TestGenerateRulesMissingSubset(t *testing.T) {
	itemsets := []Itemset{
		{Items: []Item{"a"}, Count: 2, Support: 1},
		{Items: []Item{"a", "b"}, Count: 2, Support: 1},
	}
	_, err := GenerateRules(context.Background(), itemsets, 0.5)
	if !errors.Is(err, ErrIncompleteItemsets) {
		t.Errorf("error = %v, want ErrIncompleteItemsets", err)
	}
}

func TestGenerateRulesRejectsInvalidConfidence(t *testing.T) {
	for _, minConfidence := range []float64{-0.01, 1.5, math.NaN()} {
		_, err := GenerateRules(context.Background(), nil, minConfidence)
		var paramErr *ParameterError
		if !errors.As(err, &paramErr) {
			t.Errorf("GenerateRules(minConfidence=%v) error = %v, want *ParameterError", minConfidence, err)
			continue
		}
		if paramErr.Name != "min_confidence" {
			t.Errorf("ParameterError.Name = %q, want min_confidence", paramErr.Name)
		}
	}
}

func TestSortRules(t *testing.T) {
	rules := []Rule{
		{Antecedents: []Item{"b"}, Consequents: []Item{"a"}, Support: 0.5, Confidence: 0.5},
		{Antecedents: []Item{"a"}, Consequents: []Item{"b"}, Support: 0.5, Confidence: 0.5},
		{Antecedents: []Item{"c"}, Consequents: []Item{"d"}, Support: 0.9, Confidence: 0.1},
		{Antecedents: []Item{"e"}, Consequents: []Item{"f"}, Support: 0.5, Confidence: 0.8},
	}
	SortRules(rules)

	want := []string{"c=>d", "e=>f", "a=>b", "b=>a"}
	for i, w := range want {
		if got := ruleKey(rules[i]); got != w {
			t.Errorf("rules[%d] = %s, want %s", i, got, w)
		}
	}
}
