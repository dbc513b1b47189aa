// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Package cache provides a generic, thread-safe LRU cache with TTL expiry.
//
// The suggestion endpoint caches its results here; the cache is cleared
// whenever a mining run replaces the stored rules.
package cache
