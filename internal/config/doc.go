// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Package config loads Basketrules configuration.
//
// Sources are layered with koanf, later layers overriding earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
//     /etc/basketrules/config.yaml or /etc/basketrules/config.yml
//  3. Environment variables listed in envMappings
//
// The result is validated before it is returned. The Config value is built
// once in main and passed down explicitly; nothing in this package caches it.
//
// # Mining Defaults
//
//	MINING_MIN_SUPPORT=0.02
//	MINING_MIN_CONFIDENCE=0.1
//	MINING_WORKERS=1
//	MINING_SCHEDULE_ENABLED=false
//	MINING_SCHEDULE_INTERVAL=24h
//
// # Example config.yaml
//
//	server:
//	  port: 8000
//	database:
//	  path: /data/basketrules.duckdb
//	mining:
//	  min_support: 0.05
//	  min_confidence: 0.2
//	  schedule_enabled: true
//	security:
//	  auth_mode: jwt
//	  cors_origins: ["https://shop.example.org"]
package config
