// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package mining

import (
	"github.com/yourbasic/bit"
)

// EncodedMatrix is the boolean itemset matrix of a transaction log.
// Row i holds the column indexes of the items in transaction i.
type EncodedMatrix struct {
	// Columns is the sorted, deduplicated list of items seen in any transaction.
	Columns []Item

	// Rows has one bit set per transaction.
	Rows []*bit.Set

	index map[Item]int
}

// Encode converts transactions into an EncodedMatrix. Columns are sorted
// lexicographically so that identical input always yields the same layout.
// An empty transaction list yields an empty matrix.
func Encode(transactions []Transaction) *EncodedMatrix {
	seen := make(map[Item]struct{})
	for _, tx := range transactions {
		for _, item := range tx {
			seen[item] = struct{}{}
		}
	}

	columns := make([]Item, 0, len(seen))
	for item := range seen {
		columns = append(columns, item)
	}
	sortItems(columns)

	index := make(map[Item]int, len(columns))
	for i, item := range columns {
		index[item] = i
	}

	rows := make([]*bit.Set, len(transactions))
	for i, tx := range transactions {
		row := bit.New()
		for _, item := range tx {
			row.Add(index[item])
		}
		rows[i] = row
	}

	return &EncodedMatrix{Columns: columns, Rows: rows, index: index}
}

// Len returns the number of transactions.
func (m *EncodedMatrix) Len() int {
	return len(m.Rows)
}

// Width returns the number of distinct items.
func (m *EncodedMatrix) Width() int {
	return len(m.Columns)
}

// Index returns the column of an item.
func (m *EncodedMatrix) Index(item Item) (int, bool) {
	i, ok := m.index[item]
	return i, ok
}

// Contains reports whether transaction row holds the item in column col.
func (m *EncodedMatrix) Contains(row, col int) bool {
	return m.Rows[row].Contains(col)
}

// Row decodes one transaction back into its sorted items.
func (m *EncodedMatrix) Row(i int) []Item {
	row := m.Rows[i]
	items := make([]Item, 0, row.Size())
	row.Visit(func(col int) bool {
		items = append(items, m.Columns[col])
		return false
	})
	return items
}

// ItemCounts returns the number of transactions holding each column.
func (m *EncodedMatrix) ItemCounts() []int {
	counts := make([]int, len(m.Columns))
	for _, row := range m.Rows {
		row.Visit(func(col int) bool {
			counts[col]++
			return false
		})
	}
	return counts
}

// Decode rebuilds one transaction per row with items in column order.
func (m *EncodedMatrix) Decode() []Transaction {
	txs := make([]Transaction, len(m.Rows))
	for i := range m.Rows {
		txs[i] = Transaction(m.Row(i))
	}
	return txs
}
