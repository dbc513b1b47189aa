// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package config

import (
	"time"
)

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Store      StoreConfig      `koanf:"store"`
	Mining     MiningConfig     `koanf:"mining"`
	Suggestion SuggestionConfig `koanf:"suggestion"`
	Breaker    BreakerConfig    `koanf:"breaker"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging or production
}

// DatabaseConfig holds DuckDB settings for the transaction and rule store.
type DatabaseConfig struct {
	Path                   string `koanf:"path"` // ":memory:" for an in-memory database
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"` // 0 = runtime.NumCPU()
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
}

// StoreConfig holds settings for the BadgerDB mining run history.
type StoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// Retention is the number of runs kept; older runs are pruned after each run.
	Retention int `koanf:"retention"`
}

// MiningConfig holds association rule mining settings.
type MiningConfig struct {
	// MinSupport and MinConfidence apply when a request omits them and to
	// scheduled runs.
	MinSupport    float64 `koanf:"min_support"`
	MinConfidence float64 `koanf:"min_confidence"`

	// Workers > 1 mines FP-tree header branches in parallel.
	Workers    int  `koanf:"workers"`
	SinglePath bool `koanf:"single_path"`

	// MaxTransactions caps the transactions read per run; 0 reads all.
	MaxTransactions int `koanf:"max_transactions"`

	RunTimeout       time.Duration `koanf:"run_timeout"`
	ScheduleEnabled  bool          `koanf:"schedule_enabled"`
	ScheduleInterval time.Duration `koanf:"schedule_interval"`
	RunOnStartup     bool          `koanf:"run_on_startup"`
}

// SuggestionConfig holds settings for rule based product suggestions.
type SuggestionConfig struct {
	Limit     int           `koanf:"limit"`
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// BreakerConfig holds circuit breaker settings for store access.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"` // probes allowed while half-open
	Interval     time.Duration `koanf:"interval"`     // closed-state counter reset period
	Timeout      time.Duration `koanf:"timeout"`      // open-state duration
	FailureRatio float64       `koanf:"failure_ratio"`
	MinRequests  uint32        `koanf:"min_requests"`
}

// SecurityConfig holds authentication, CORS and rate limiting settings.
type SecurityConfig struct {
	AuthMode             string        `koanf:"auth_mode"` // none or jwt
	JWTSecret            string        `koanf:"jwt_secret"`
	SessionTimeout       time.Duration `koanf:"session_timeout"`
	CORSOrigins          []string      `koanf:"cors_origins"`
	CORSAllowCredentials bool          `koanf:"cors_allow_credentials"`
	RateLimitReqs        int           `koanf:"rate_limit_reqs"`
	RateLimitWindow      time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled    bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from all sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
