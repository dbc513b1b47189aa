// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Package main is the entry point for the basketrules server.
//
// The server mines association rules from recorded purchases and serves
// product suggestions from the stored rules over a REST API.
//
// # Startup Order
//
//  1. Configuration: defaults, optional config file, then environment (Koanf v2)
//  2. Logging: zerolog, with an slog bridge for the supervisor tree
//  3. Storage: DuckDB for transactions and rules, optionally behind a circuit breaker
//  4. Run history: BadgerDB log of mining runs
//  5. Event bus: in-process Watermill channel for rules.replaced
//  6. Engine, authentication and the Chi router
//  7. Supervisor tree: mining schedule, event subscribers, HTTP server
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
// to the configured server timeout and the stores are closed afterwards.
//
// # Example Usage
//
//	export AUTH_MODE=jwt
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export MINING_SCHEDULE_ENABLED=true
//	./basketrules
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/basketrules/internal/api"
	"github.com/tomtom215/basketrules/internal/auth"
	"github.com/tomtom215/basketrules/internal/config"
	"github.com/tomtom215/basketrules/internal/database"
	"github.com/tomtom215/basketrules/internal/events"
	"github.com/tomtom215/basketrules/internal/logging"
	"github.com/tomtom215/basketrules/internal/recommend"
	"github.com/tomtom215/basketrules/internal/runlog"
	"github.com/tomtom215/basketrules/internal/supervisor"
	"github.com/tomtom215/basketrules/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

//nolint:gocyclo // sequential setup steps
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Float64("min_support", cfg.Mining.MinSupport).
		Float64("min_confidence", cfg.Mining.MinConfidence).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	var store database.Store = db
	if cfg.Breaker.Enabled {
		store = database.NewCircuitBreakerStore(db, cfg.Breaker)
		logging.Info().
			Float64("failure_ratio", cfg.Breaker.FailureRatio).
			Dur("open_timeout", cfg.Breaker.Timeout).
			Msg("Store circuit breaker enabled")
	}

	runs, err := runlog.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer func() {
		if err := runs.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing run log")
		}
	}()

	bus := events.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	engine, err := recommend.NewEngine(store, runs, bus, cfg)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	authMiddleware, err := auth.NewMiddleware(&cfg.Security)
	if err != nil {
		return fmt.Errorf("configure authentication: %w", err)
	}
	warnInsecureSettings(cfg)

	router := api.NewRouter(
		api.NewHandler(engine, store, cfg),
		authMiddleware,
		api.ChiMiddlewareConfigFromSecurity(&cfg.Security),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + cfg.Mining.RunTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.Timeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if cfg.Mining.RunOnStartup || cfg.Mining.ScheduleEnabled {
		scheduleCfg := services.MiningScheduleConfig{RunOnStartup: cfg.Mining.RunOnStartup}
		if cfg.Mining.ScheduleEnabled {
			scheduleCfg.Interval = cfg.Mining.ScheduleInterval
		}
		tree.AddMiningService(services.NewMiningScheduleService(engine, scheduleCfg, logging.WithComponent("scheduler")))
		logging.Info().
			Bool("run_on_startup", scheduleCfg.RunOnStartup).
			Dur("interval", scheduleCfg.Interval).
			Msg("Mining schedule added to supervisor tree")
	}

	tree.AddMessagingService(services.NewSubscriberService(
		"suggestion-cache-invalidator",
		bus.NewRulesReplacedHandler(engine.HandleRulesReplaced),
	))

	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.Timeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped")
	return nil
}

func warnInsecureSettings(cfg *config.Config) {
	if cfg.Security.AuthMode == auth.ModeNone && !cfg.IsDevelopment() {
		logging.Warn().Msg("Authentication is disabled (AUTH_MODE=none); every caller is treated as admin")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is disabled (DISABLE_RATE_LIMIT=true)")
	}
}
