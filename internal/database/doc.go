// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Package database is the DuckDB store for purchase transactions and the
// association rules mined from them.
//
// # Overview
//
// The store keeps two families of tables:
//
//   - transactions / transaction_items: one row per purchase and one row per
//     purchased product. A purchase without products is still a transaction
//     and counts toward the total used for support ratios.
//   - association_rules / association_rule_items: the current rule set. Each
//     mining run replaces the whole set in a single SQL transaction.
//
// # Files
//
//   - database.go: connection lifecycle (New, Close, Ping, Checkpoint)
//   - schema.go: table and index creation
//   - transactions.go: purchase ingestion, mining input and product popularity
//   - rules.go: rule replacement, paging and antecedent lookup
//   - circuit_breaker.go: Store wrapper that fails fast while DuckDB is unhealthy
//
// # Database Technology
//
// DuckDB is used through database/sql with the CGO driver
// (github.com/duckdb/duckdb-go/v2). Timestamps are always supplied by the
// caller so the schema does not depend on the ICU extension.
//
// # Thread Safety
//
// DB is safe for concurrent use. Rule replacement runs inside one SQL
// transaction so readers see either the previous or the new rule set.
package database
