// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package mining

import (
	"context"
	"time"
)

// Params are the thresholds of one mining run.
type Params struct {
	// MinSupport must be in (0, 1].
	MinSupport float64 `json:"min_support"`

	// MinConfidence must be in [0, 1].
	MinConfidence float64 `json:"min_confidence"`
}

// Validate reports the first out of range threshold as a *ParameterError.
func (p Params) Validate() error {
	if err := validateMinSupport(p.MinSupport); err != nil {
		return err
	}
	return validateMinConfidence(p.MinConfidence)
}

// PipelineConfig tunes the miner used by a Pipeline.
type PipelineConfig struct {
	Workers    int
	SinglePath bool
}

// DefaultPipelineConfig returns a sequential configuration with the
// single-path optimization enabled.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{Workers: 1, SinglePath: true}
}

// Result is the output of one Pipeline run.
type Result struct {
	TransactionCount int           `json:"transaction_count"`
	ItemCount        int           `json:"item_count"`
	Itemsets         []Itemset     `json:"itemsets"`
	Rules            []Rule        `json:"rules"`
	Duration         time.Duration `json:"duration"`
}

// Pipeline runs Encode, Miner.Mine and GenerateRules in sequence.
// It performs no I/O.
type Pipeline struct {
	miner *Miner
}

// NewPipeline creates a Pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		miner: NewMiner(
			WithWorkers(cfg.Workers),
			WithSinglePathOptimization(cfg.SinglePath),
		),
	}
}

// Run mines transactions with the given thresholds. Thresholds are checked
// before any work is done. Empty input yields an empty Result, not an error.
func (p *Pipeline) Run(ctx context.Context, transactions []Transaction, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	matrix := Encode(transactions)

	itemsets, err := p.miner.Mine(ctx, matrix, params.MinSupport)
	if err != nil {
		return nil, err
	}

	rules, err := GenerateRules(ctx, itemsets, params.MinConfidence)
	if err != nil {
		return nil, err
	}

	return &Result{
		TransactionCount: matrix.Len(),
		ItemCount:        matrix.Width(),
		Itemsets:         itemsets,
		Rules:            rules,
		Duration:         time.Since(start),
	}, nil
}
