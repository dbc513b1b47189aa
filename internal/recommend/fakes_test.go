// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package recommend

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/basketrules/internal/config"
	"github.com/tomtom215/basketrules/internal/database"
	"github.com/tomtom215/basketrules/internal/events"
	"github.com/tomtom215/basketrules/internal/mining"
	"github.com/tomtom215/basketrules/internal/models"
	"github.com/tomtom215/basketrules/internal/runlog"
)

// oid returns a 24 character object identifier made of c.
func oid(c string) string {
	return strings.Repeat(c, 24)
}

// fakeStore is an in-memory database.Store.
type fakeStore struct {
	mu           sync.Mutex
	transactions []mining.Transaction
	rules        []models.AssociationRule

	fetchErr   error
	replaceErr error

	// gate, when set, blocks FetchTransactions until closed; entered is
	// signalled first.
	gate    chan struct{}
	entered chan struct{}

	replaceCalls int
	ruleLookups  int
}

var _ database.Store = (*fakeStore)(nil)

func newFakeStore(txs ...[]string) *fakeStore {
	s := &fakeStore{}
	for _, ids := range txs {
		tx := make(mining.Transaction, len(ids))
		for i, id := range ids {
			tx[i] = mining.Item(id)
		}
		s.transactions = append(s.transactions, tx)
	}
	return s
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }

func (s *fakeStore) InsertTransaction(ctx context.Context, id string, items []mining.Item) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = "generated-id"
	}
	s.transactions = append(s.transactions, mining.NewTransaction(items...))
	return id, nil
}

func (s *fakeStore) CountTransactions(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions), nil
}

func (s *fakeStore) FetchTransactions(ctx context.Context, limit int) ([]mining.Transaction, error) {
	if s.gate != nil {
		s.entered <- struct{}{}
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	txs := s.transactions
	if limit > 0 && len(txs) > limit {
		txs = txs[len(txs)-limit:]
	}
	return append([]mining.Transaction(nil), txs...), nil
}

func (s *fakeStore) PopularItems(ctx context.Context, exclude []string, limit int) ([]models.ItemPopularity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	counts := make(map[string]int)
	for _, tx := range s.transactions {
		for _, item := range tx {
			if !skip[string(item)] {
				counts[string(item)]++
			}
		}
	}

	items := make([]models.ItemPopularity, 0, len(counts))
	for id, n := range counts {
		items = append(items, models.ItemPopularity{ProductID: id, Transactions: n})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Transactions != items[j].Transactions {
			return items[i].Transactions > items[j].Transactions
		}
		return items[i].ProductID < items[j].ProductID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *fakeStore) ReplaceRules(ctx context.Context, rules []mining.Rule, createdAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaceCalls++
	s.rules = s.rules[:0]
	for _, r := range rules {
		s.rules = append(s.rules, models.AssociationRule{
			Antecedents: itemStrings(r.Antecedents),
			Consequents: itemStrings(r.Consequents),
			Support:     r.Support,
			Confidence:  r.Confidence,
			Lift:        r.Lift,
			CreatedAt:   createdAt,
		})
	}
	return nil
}

func (s *fakeStore) CountRules(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rules), nil
}

func (s *fakeStore) ListRules(ctx context.Context, q models.RuleQuery) (*models.RulePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.RulePage{Data: append([]models.AssociationRule(nil), s.rules...), Total: len(s.rules)}, nil
}

func (s *fakeStore) RulesByAntecedents(ctx context.Context, productIDs []string, limit int) ([]models.AssociationRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ruleLookups++

	want := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		want[id] = true
	}
	var out []models.AssociationRule
	for _, r := range s.rules {
		for _, id := range r.Antecedents {
			if want[id] {
				out = append(out, r)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Lift != out[j].Lift {
			return out[i].Lift > out[j].Lift
		}
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Support > out[j].Support
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) lookups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ruleLookups
}

func itemStrings(items []mining.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = string(item)
	}
	return out
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []events.RulesReplaced
	err    error
}

func (p *fakePublisher) PublishRulesReplaced(ctx context.Context, evt events.RulesReplaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Mining: config.MiningConfig{
			MinSupport:    0.5,
			MinConfidence: 0.6,
			Workers:       1,
			SinglePath:    true,
		},
		Suggestion: config.SuggestionConfig{
			Limit:     12,
			CacheSize: 16,
			CacheTTL:  time.Minute,
		},
	}
}

func newTestRunLog(t *testing.T) *runlog.Log {
	t.Helper()
	l, err := runlog.Open(config.StoreConfig{InMemory: true, Retention: 10})
	if err != nil {
		t.Fatalf("runlog.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func newTestEngine(t *testing.T, store *fakeStore, publisher Publisher) (*Engine, *runlog.Log) {
	t.Helper()
	runs := newTestRunLog(t)
	e, err := NewEngine(store, runs, publisher, testConfig())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e, runs
}
