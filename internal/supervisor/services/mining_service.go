// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketrules/internal/mining"
	"github.com/tomtom215/basketrules/internal/recommend"
	"github.com/tomtom215/basketrules/internal/runlog"
)

// Miner starts mining runs.
type Miner interface {
	DefaultParams() mining.Params
	Generate(ctx context.Context, trigger string, params mining.Params) (*runlog.Run, error)
}

// MiningScheduleConfig controls when runs are started.
type MiningScheduleConfig struct {
	RunOnStartup bool

	// Interval between scheduled runs; zero or negative disables the ticker.
	Interval time.Duration
}

// MiningScheduleService mines with the configured defaults on startup and
// on a fixed interval. Run failures are logged and never stop the service.
type MiningScheduleService struct {
	miner  Miner
	config MiningScheduleConfig
	logger zerolog.Logger
	name   string
}

// NewMiningScheduleService creates the scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMiningScheduleService(miner Miner, cfg MiningScheduleConfig, logger zerolog.Logger) *MiningScheduleService {
	return &MiningScheduleService{
		miner:  miner,
		config: cfg,
		logger: logger.With().Str("service", "mining-schedule").Logger(),
		name:   "mining-schedule",
	}
}

// Serve implements suture.Service.
func (s *MiningScheduleService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("mining scheduler starting")

	if s.config.RunOnStartup {
		s.mine(ctx, runlog.TriggerStartup)
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("mining scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.mine(ctx, runlog.TriggerSchedule)
		}
	}
}

func (s *MiningScheduleService) mine(ctx context.Context, trigger string) {
	run, err := s.miner.Generate(ctx, trigger, s.miner.DefaultParams())
	switch {
	case errors.Is(err, recommend.ErrRunInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("skipping run, another run is in progress")
	case err != nil:
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("mining run failed")
	default:
		s.logger.Info().
			Str("trigger", trigger).
			Str("run_id", run.ID).
			Bool("persisted", run.Persisted).
			Int("rules", run.Rules).
			Msg("mining run complete")
	}
}

// String identifies the service in supervisor logs.
func (s *MiningScheduleService) String() string {
	return s.name
}
