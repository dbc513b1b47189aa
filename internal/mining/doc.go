// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Package mining implements frequent itemset mining and association rule
// generation over purchase transactions.
//
// # Architecture
//
// A mining run flows through three stages, orchestrated by Pipeline:
//
//   - Encode: transactions become a boolean matrix over a sorted item list
//   - Miner: FP-growth over the encoded matrix yields every itemset whose
//     support ratio meets the minimum support
//   - GenerateRules: each frequent itemset of size two or more is split into
//     antecedent and consequent, scored, and kept when its confidence meets
//     the minimum confidence
//
// # Determinism
//
// Item columns are sorted lexicographically. Within a transaction, items are
// inserted into the FP-tree by descending support count, ties broken by column
// index. Header items are mined in ascending support order, ties broken by
// descending column index. Returned itemsets are sorted by size and then by
// items; rules are sorted by support, confidence and lift (all descending).
// Identical input always produces identical output regardless of transaction
// order.
//
// # FP-Tree Layout
//
// The FP-tree is an arena: nodes live in a slice and refer to their parent and
// children by index. The header table maps each item to the indexes of the
// nodes holding it. Trees are built and discarded within a single Mine call.
//
// # Usage
//
//	pipeline := mining.NewPipeline(mining.DefaultPipelineConfig())
//	result, err := pipeline.Run(ctx, transactions, mining.Params{
//	    MinSupport:    0.02,
//	    MinConfidence: 0.1,
//	})
//	if errors.Is(err, mining.ErrInvalidParameter) {
//	    // thresholds out of range; nothing was mined
//	}
//
// # Thread Safety
//
// Pipeline and Miner hold no mutable state and are safe for concurrent use.
// With Workers > 1 the top-level header branches are mined in parallel over a
// read-only tree.
package mining
