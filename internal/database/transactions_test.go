// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/basketrules/internal/mining"
)

func TestInsertAndFetchTransactions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertTransactions(t, db,
		[]mining.Item{"b", "a"},
		[]mining.Item{"a", "a", "c"},
		[]mining.Item{},
	)

	txs, err := db.FetchTransactions(ctx, 0)
	if err != nil {
		t.Fatalf("FetchTransactions() error: %v", err)
	}

	want := [][]mining.Item{{"a", "b"}, {"a", "c"}, {}}
	if len(txs) != len(want) {
		t.Fatalf("FetchTransactions() returned %d transactions, want %d", len(txs), len(want))
	}
	for i := range want {
		if len(txs[i]) != len(want[i]) {
			t.Errorf("transaction %d = %v, want %v", i, txs[i], want[i])
			continue
		}
		for j := range want[i] {
			if txs[i][j] != want[i][j] {
				t.Errorf("transaction %d = %v, want %v", i, txs[i], want[i])
				break
			}
		}
	}

	count, err := db.CountTransactions(ctx)
	if err != nil {
		t.Fatalf("CountTransactions() error: %v", err)
	}
	if count != 3 {
		t.Errorf("CountTransactions() = %d, want 3", count)
	}
}

func TestFetchTransactionsEmptyStore(t *testing.T) {
	db := setupTestDB(t)

	txs, err := db.FetchTransactions(context.Background(), 0)
	if err != nil {
		t.Fatalf("FetchTransactions() error: %v", err)
	}
	if txs == nil || len(txs) != 0 {
		t.Errorf("FetchTransactions() = %v, want empty non-nil slice", txs)
	}
}

func TestFetchTransactionsLimit(t *testing.T) {
	db := setupTestDB(t)

	insertTransactions(t, db,
		[]mining.Item{"a"},
		[]mining.Item{"b"},
		[]mining.Item{"c"},
	)

	txs, err := db.FetchTransactions(context.Background(), 2)
	if err != nil {
		t.Fatalf("FetchTransactions() error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("FetchTransactions(limit=2) returned %d transactions, want 2", len(txs))
	}
	if txs[0][0] != "b" || txs[1][0] != "c" {
		t.Errorf("FetchTransactions(limit=2) = %v, want the two most recent [[b] [c]]", txs)
	}
}

func TestInsertTransaction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "explicit id", id: "order-1"},
		{name: "duplicate id", id: "order-1", wantErr: ErrTransactionExists},
		{name: "generated id", id: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.InsertTransaction(ctx, tt.id, []mining.Item{"a"})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("InsertTransaction() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("InsertTransaction() error: %v", err)
			}
			if tt.id != "" && got != tt.id {
				t.Errorf("InsertTransaction() id = %q, want %q", got, tt.id)
			}
			if tt.id == "" && len(got) != 36 {
				t.Errorf("InsertTransaction() generated id = %q, want a UUID", got)
			}
		})
	}

	count, err := db.CountTransactions(ctx)
	if err != nil {
		t.Fatalf("CountTransactions() error: %v", err)
	}
	if count != 2 {
		t.Errorf("CountTransactions() = %d, want 2 (duplicate must not be stored)", count)
	}
}

func TestPopularItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertTransactions(t, db,
		[]mining.Item{"a", "b"},
		[]mining.Item{"a", "c"},
		[]mining.Item{"a", "b"},
		[]mining.Item{"d"},
	)

	tests := []struct {
		name    string
		exclude []string
		limit   int
		want    []string
		counts  []int
	}{
		{name: "all", limit: 10, want: []string{"a", "b", "c", "d"}, counts: []int{3, 2, 1, 1}},
		{name: "limited", limit: 2, want: []string{"a", "b"}, counts: []int{3, 2}},
		{name: "excluded", exclude: []string{"a", "c"}, limit: 10, want: []string{"b", "d"}, counts: []int{2, 1}},
		{name: "zero limit", limit: 0, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.PopularItems(ctx, tt.exclude, tt.limit)
			if err != nil {
				t.Fatalf("PopularItems() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("PopularItems() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i].ProductID != tt.want[i] || got[i].Transactions != tt.counts[i] {
					t.Errorf("PopularItems()[%d] = %+v, want {%s %d}", i, got[i], tt.want[i], tt.counts[i])
				}
			}
		})
	}
}
