// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Database.Path != "/data/basketrules.duckdb" {
		t.Errorf("Database.Path = %q, want /data/basketrules.duckdb", cfg.Database.Path)
	}
	if cfg.Mining.MinSupport != 0.02 {
		t.Errorf("Mining.MinSupport = %v, want 0.02", cfg.Mining.MinSupport)
	}
	if cfg.Mining.MinConfidence != 0.1 {
		t.Errorf("Mining.MinConfidence = %v, want 0.1", cfg.Mining.MinConfidence)
	}
	if cfg.Mining.Workers != 1 {
		t.Errorf("Mining.Workers = %d, want 1", cfg.Mining.Workers)
	}
	if cfg.Mining.ScheduleEnabled {
		t.Error("Mining.ScheduleEnabled = true, want false")
	}
	if cfg.Suggestion.Limit != 12 {
		t.Errorf("Suggestion.Limit = %d, want 12", cfg.Suggestion.Limit)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("Security.CORSOrigins = %v, want [http://localhost:3000]", cfg.Security.CORSOrigins)
	}
	if cfg.Security.AuthMode != "none" {
		t.Errorf("Security.AuthMode = %q, want none", cfg.Security.AuthMode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestLoadWithKoanfEnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MINING_MIN_SUPPORT", "0.05")
	t.Setenv("MINING_MIN_CONFIDENCE", "0.3")
	t.Setenv("MINING_WORKERS", "4")
	t.Setenv("MINING_SCHEDULE_ENABLED", "true")
	t.Setenv("MINING_SCHEDULE_INTERVAL", "6h")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Mining.MinSupport != 0.05 {
		t.Errorf("Mining.MinSupport = %v, want 0.05", cfg.Mining.MinSupport)
	}
	if cfg.Mining.MinConfidence != 0.3 {
		t.Errorf("Mining.MinConfidence = %v, want 0.3", cfg.Mining.MinConfidence)
	}
	if cfg.Mining.Workers != 4 {
		t.Errorf("Mining.Workers = %d, want 4", cfg.Mining.Workers)
	}
	if !cfg.Mining.ScheduleEnabled {
		t.Error("Mining.ScheduleEnabled = false, want true")
	}
	if cfg.Mining.ScheduleInterval != 6*time.Hour {
		t.Errorf("Mining.ScheduleInterval = %v, want 6h", cfg.Mining.ScheduleInterval)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.org" {
		t.Errorf("Security.CORSOrigins = %v, want two trimmed origins", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched values keep their defaults.
	if cfg.Suggestion.Limit != 12 {
		t.Errorf("Suggestion.Limit = %d, want 12", cfg.Suggestion.Limit)
	}
}

func TestLoadWithKoanfFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`server:
  port: 7000
mining:
  min_support: 0.1
  min_confidence: 0.5
suggestion:
  limit: 5
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MINING_MIN_CONFIDENCE", "0.6")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Mining.MinSupport != 0.1 {
		t.Errorf("Mining.MinSupport = %v, want 0.1", cfg.Mining.MinSupport)
	}
	// Environment wins over the file.
	if cfg.Mining.MinConfidence != 0.6 {
		t.Errorf("Mining.MinConfidence = %v, want 0.6", cfg.Mining.MinConfidence)
	}
	if cfg.Suggestion.Limit != 5 {
		t.Errorf("Suggestion.Limit = %d, want 5", cfg.Suggestion.Limit)
	}
}

func TestLoadWithKoanfRejectsInvalid(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MINING_MIN_SUPPORT", "1.5")

	if _, err := LoadWithKoanf(); err == nil {
		t.Error("LoadWithKoanf() accepted MINING_MIN_SUPPORT=1.5")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"RUNLOG_PATH", "store.path"},
		{"MINING_MIN_SUPPORT", "mining.min_support"},
		{"SUGGESTION_LIMIT", "suggestion.limit"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"LOG_FORMAT", "logging.format"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.key); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
