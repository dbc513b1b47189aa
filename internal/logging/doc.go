// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Package logging provides the zerolog based structured logger shared by
// every Basketrules component.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int("rules", n).Msg("Association rules replaced")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Suggestion lookup failed")
//
// # Context Fields
//
// HTTP middleware stores a request ID and a correlation ID in the request
// context; a mining run stores its run ID. Ctx returns a logger carrying
// whichever of these are present.
//
// # slog Interop
//
// Libraries that log through log/slog (the suture supervisor and watermill)
// receive NewSlogLogger, which forwards records to the global zerolog logger.
package logging
