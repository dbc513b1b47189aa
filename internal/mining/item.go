// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package mining

import (
	"sort"
	"strings"
)

// ObjectIDLength is the length of a hex encoded object identifier.
const ObjectIDLength = 24

// Item is an opaque product identifier. Items are ordered lexicographically.
type Item string

// ParseItem parses a 24 character hexadecimal object identifier into an Item.
// Upper case hex digits are normalized to lower case.
func ParseItem(s string) (Item, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ParseError{Input: s, Reason: "empty identifier"}
	}
	if len(s) != ObjectIDLength {
		return "", &ParseError{Input: s, Reason: "identifier must be 24 hex characters"}
	}
	for i := 0; i < len(s); i++ {
		if !isHex(s[i]) {
			return "", &ParseError{Input: s, Reason: "identifier contains non-hex characters"}
		}
	}
	return Item(strings.ToLower(s)), nil
}

// NewItem accepts any non-empty opaque identifier. Surrounding whitespace is
// trimmed. Use ParseItem for object identifiers coming from the store.
func NewItem(s string) (Item, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ParseError{Input: s, Reason: "empty identifier"}
	}
	return Item(s), nil
}

// ParseItems parses every identifier and returns the first failure.
func ParseItems(ids []string) ([]Item, error) {
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		item, err := ParseItem(id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Transaction is the set of items bought together.
type Transaction []Item

// NewTransaction builds a transaction, dropping repeated items.
// First-seen order is preserved.
func NewTransaction(items ...Item) Transaction {
	seen := make(map[Item]struct{}, len(items))
	tx := make(Transaction, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		tx = append(tx, item)
	}
	return tx
}

// Contains reports whether the transaction holds every given item.
func (t Transaction) Contains(items ...Item) bool {
	for _, want := range items {
		found := false
		for _, have := range t {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Itemset is a set of items with its support in the mined transactions.
type Itemset struct {
	// Items are sorted lexicographically.
	Items []Item `json:"items"`

	// Count is the number of transactions containing every item.
	Count int `json:"count"`

	// Support is Count divided by the total number of transactions.
	Support float64 `json:"support"`
}

// Key returns a canonical string for the item combination.
func (s Itemset) Key() string {
	return itemsKey(s.Items)
}

// Len returns the number of items.
func (s Itemset) Len() int {
	return len(s.Items)
}

func itemsKey(items []Item) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteString(string(item))
	}
	return b.String()
}

func sortItems(items []Item) {
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
}

func compareItems(a, b []Item) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}
