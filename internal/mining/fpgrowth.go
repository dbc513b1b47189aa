// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package mining

import (
	"context"
	"math"
	"sort"
	"sync"
)

// supportTolerance is the relative slack that absorbs rounding in
// minSupport*n before taking the ceiling. It stays far below the gap
// between a threshold and the next representable count ratio.
const supportTolerance = 1e-12

// Miner mines frequent itemsets with FP-growth.
type Miner struct {
	workers    int
	singlePath bool
}

// MinerOption configures a Miner.
type MinerOption func(*Miner)

// WithWorkers mines top-level header branches on n goroutines.
// Values below 1 are treated as 1.
func WithWorkers(n int) MinerOption {
	return func(m *Miner) {
		if n < 1 {
			n = 1
		}
		m.workers = n
	}
}

// WithSinglePathOptimization enumerates single-path conditional trees
// directly instead of recursing. Enabled by default.
func WithSinglePathOptimization(enabled bool) MinerOption {
	return func(m *Miner) {
		m.singlePath = enabled
	}
}

// NewMiner creates a Miner.
func NewMiner(opts ...MinerOption) *Miner {
	m := &Miner{workers: 1, singlePath: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// pattern is an itemset expressed as column indexes.
type pattern struct {
	items []int
	count int
}

// Mine returns every itemset whose support ratio is at least minSupport,
// each exactly once, sorted by size and then by items.
func (m *Miner) Mine(ctx context.Context, matrix *EncodedMatrix, minSupport float64) ([]Itemset, error) {
	if err := validateMinSupport(minSupport); err != nil {
		return nil, err
	}

	n := matrix.Len()
	if n == 0 {
		return []Itemset{}, nil
	}
	minCount := MinimumCount(minSupport, n)

	tree, order, err := buildTree(ctx, matrix, minCount)
	if err != nil {
		return nil, err
	}

	var patterns []pattern
	if m.workers > 1 && len(order) > 1 {
		patterns, err = m.mineParallel(ctx, tree, order, minCount)
	} else {
		err = m.mineTree(ctx, tree, order, nil, minCount, func(p pattern) {
			patterns = append(patterns, p)
		})
	}
	if err != nil {
		return nil, err
	}

	return toItemsets(matrix, patterns, n), nil
}

// MinimumCount converts a support ratio into the smallest qualifying
// transaction count for n transactions.
func MinimumCount(minSupport float64, n int) int {
	exact := minSupport * float64(n)
	c := int(math.Ceil(exact - exact*supportTolerance))
	if c < 1 {
		c = 1
	}
	return c
}

// buildTree inserts every transaction's frequent items into a new tree and
// returns it with the header processing order (ascending support).
func buildTree(ctx context.Context, matrix *EncodedMatrix, minCount int) (*fpTree, []int, error) {
	counts := matrix.ItemCounts()

	var frequent []int
	for col, c := range counts {
		if c >= minCount {
			frequent = append(frequent, col)
		}
	}
	rank := rankItems(frequent, func(col int) int { return counts[col] })

	tree := newFPTree()
	path := make([]int, 0, len(frequent))
	for i, row := range matrix.Rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		path = path[:0]
		row.Visit(func(col int) bool {
			if _, ok := rank[col]; ok {
				path = append(path, col)
			}
			return false
		})
		sortByRank(path, rank)
		tree.insert(path, 1)
	}

	return tree, headerOrder(rank), nil
}

// rankItems orders items by descending count, ties by ascending column.
// The returned map holds each item's position.
func rankItems(items []int, count func(int) int) map[int]int {
	sorted := append([]int(nil), items...)
	sort.Slice(sorted, func(i, j int) bool {
		ci, cj := count(sorted[i]), count(sorted[j])
		if ci != cj {
			return ci > cj
		}
		return sorted[i] < sorted[j]
	})
	rank := make(map[int]int, len(sorted))
	for i, item := range sorted {
		rank[item] = i
	}
	return rank
}

func sortByRank(path []int, rank map[int]int) {
	sort.Slice(path, func(i, j int) bool { return rank[path[i]] < rank[path[j]] })
}

// headerOrder lists ranked items from least to most frequent.
func headerOrder(rank map[int]int) []int {
	order := make([]int, len(rank))
	for item, pos := range rank {
		order[len(rank)-1-pos] = item
	}
	return order
}

func (m *Miner) mineTree(ctx context.Context, tree *fpTree, order []int, suffix []int, minCount int, emit func(pattern)) error {
	if tree.empty() {
		return nil
	}
	if m.singlePath {
		if path, ok := tree.singlePath(); ok {
			return enumeratePath(ctx, tree, path, suffix, minCount, emit)
		}
	}
	for _, item := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.mineItem(ctx, tree, item, suffix, minCount, emit); err != nil {
			return err
		}
	}
	return nil
}

// mineItem emits suffix+item and recurses into item's conditional tree.
func (m *Miner) mineItem(ctx context.Context, tree *fpTree, item int, suffix []int, minCount int, emit func(pattern)) error {
	itemset := make([]int, len(suffix)+1)
	copy(itemset, suffix)
	itemset[len(suffix)] = item
	emit(pattern{items: itemset, count: tree.counts[item]})

	type prefix struct {
		path  []int
		count int
	}
	var base []prefix
	condCounts := make(map[int]int)
	for _, node := range tree.header[item] {
		path := tree.prefixPath(node)
		if len(path) == 0 {
			continue
		}
		c := tree.nodes[node].count
		base = append(base, prefix{path: path, count: c})
		for _, it := range path {
			condCounts[it] += c
		}
	}

	var frequent []int
	for it, c := range condCounts {
		if c >= minCount {
			frequent = append(frequent, it)
		}
	}
	if len(frequent) == 0 {
		return nil
	}
	rank := rankItems(frequent, func(it int) int { return condCounts[it] })

	cond := newFPTree()
	for _, p := range base {
		filtered := p.path[:0]
		for _, it := range p.path {
			if _, ok := rank[it]; ok {
				filtered = append(filtered, it)
			}
		}
		sortByRank(filtered, rank)
		cond.insert(filtered, p.count)
	}

	return m.mineTree(ctx, cond, headerOrder(rank), itemset, minCount, emit)
}

// enumeratePath emits every non-empty combination of a single-path tree.
// A combination's count is the count of its deepest node.
func enumeratePath(ctx context.Context, tree *fpTree, path []int, suffix []int, minCount int, emit func(pattern)) error {
	var walk func(start int, chosen []int) error
	walk = func(start int, chosen []int) error {
		for i := start; i < len(path); i++ {
			node := tree.nodes[path[i]]
			if node.count < minCount {
				// Counts never grow deeper along a path.
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			next := append(chosen, node.item)
			items := make([]int, len(suffix)+len(next))
			copy(items, suffix)
			copy(items[len(suffix):], next)
			emit(pattern{items: items, count: node.count})
			if err := walk(i+1, next[:len(next):len(next)]); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(0, nil)
}

// mineParallel fans the top-level header items out to workers. The tree is
// only read once built.
func (m *Miner) mineParallel(ctx context.Context, tree *fpTree, order []int, minCount int) ([]pattern, error) {
	if m.singlePath {
		if path, ok := tree.singlePath(); ok {
			var patterns []pattern
			err := enumeratePath(ctx, tree, path, nil, minCount, func(p pattern) {
				patterns = append(patterns, p)
			})
			return patterns, err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	results := make([][]pattern, m.workers)
	errs := make([]error, m.workers)

	var wg sync.WaitGroup
	for w := 0; w < m.workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for item := range jobs {
				err := m.mineItem(ctx, tree, item, nil, minCount, func(p pattern) {
					results[w] = append(results[w], p)
				})
				if err != nil {
					errs[w] = err
					cancel()
					return
				}
			}
		}(w)
	}

feed:
	for _, item := range order {
		select {
		case jobs <- item:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var patterns []pattern
	for _, r := range results {
		patterns = append(patterns, r...)
	}
	return patterns, nil
}

func toItemsets(matrix *EncodedMatrix, patterns []pattern, n int) []Itemset {
	itemsets := make([]Itemset, 0, len(patterns))
	for _, p := range patterns {
		cols := append([]int(nil), p.items...)
		sort.Ints(cols)
		items := make([]Item, len(cols))
		for i, col := range cols {
			items[i] = matrix.Columns[col]
		}
		itemsets = append(itemsets, Itemset{
			Items:   items,
			Count:   p.count,
			Support: float64(p.count) / float64(n),
		})
	}
	SortItemsets(itemsets)
	return itemsets
}

// SortItemsets orders itemsets by size, then lexicographically by items.
func SortItemsets(itemsets []Itemset) {
	sort.Slice(itemsets, func(i, j int) bool {
		a, b := itemsets[i], itemsets[j]
		if len(a.Items) != len(b.Items) {
			return len(a.Items) < len(b.Items)
		}
		return compareItems(a.Items, b.Items) < 0
	})
}
