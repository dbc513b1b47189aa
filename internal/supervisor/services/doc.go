// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Package services adapts the HTTP server, the mining scheduler and event
// subscribers to suture.Service so the supervisor tree can run and restart
// them.
package services
