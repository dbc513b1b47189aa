// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Package runlog keeps the history of mining runs in BadgerDB.
//
// Each run is stored as JSON under a key ordered by start time:
//
//	run:<20-digit unix nanos>:<run id>
//
// plus a secondary key run_id:<run id> pointing at the primary key, so runs
// can be listed newest first with a reverse prefix scan and fetched by ID.
// Record prunes the oldest runs once the configured retention is exceeded.
package runlog
