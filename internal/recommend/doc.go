// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Package recommend orchestrates association rule mining and serves
// rule based product suggestions.
//
// # Mining Runs
//
// Engine.Generate executes one run end to end:
//
//  1. Validate thresholds and take the run lock (a concurrent run fails
//     fast with ErrRunInProgress rather than queueing)
//  2. Read transactions from the store
//  3. Mine frequent itemsets and rules with mining.Pipeline
//  4. Replace the stored rules when at least one rule was produced
//  5. Record the run in the run log and publish rules.replaced
//
// A run that produces zero rules leaves the stored rules untouched and is
// reported with Persisted=false.
//
// # Suggestions
//
// Engine.Suggest returns up to limit product IDs for a basket. Consequents
// of rules whose antecedents overlap the basket come first (rules ordered
// by lift, confidence, support), then the most purchased products fill the
// remainder. Input products never appear in the result. Results are cached
// per basket and limit until the rules change.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Suggest and ListRules never block on a
// running mining run.
package recommend
