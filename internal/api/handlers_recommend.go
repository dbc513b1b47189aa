// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/basketrules/internal/logging"
	"github.com/tomtom215/basketrules/internal/mining"
	"github.com/tomtom215/basketrules/internal/models"
	"github.com/tomtom215/basketrules/internal/runlog"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// GenerateRules handles POST /api/v1/recommend-service.
// Thresholds omitted from the body fall back to the configured defaults.
// Responds 201 with created=false when no rule met the thresholds.
func (h *Handler) GenerateRules(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.GenerateRulesRequest
	if apiErr := decodeJSONBody(w, r, &req, true); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	params := h.engine.DefaultParams()
	if req.MinSupport != nil {
		params.MinSupport = *req.MinSupport
	}
	if req.MinConfidence != nil {
		params.MinConfidence = *req.MinConfidence
	}

	run, err := h.engine.Generate(r.Context(), runlog.TriggerAPI, params)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("run_id", run.ID).
		Bool("created", run.Persisted).
		Int("rules", run.Rules).
		Msg("Mining run requested through API")

	respondSuccess(w, http.StatusCreated, generateResponse(run, params), start)
}

func generateResponse(run *runlog.Run, params mining.Params) models.GenerateRulesResponse {
	return models.GenerateRulesResponse{
		Created:       run.Persisted,
		RunID:         run.ID,
		Transactions:  run.Transactions,
		Itemsets:      run.Itemsets,
		Rules:         run.Rules,
		DurationMS:    run.Duration().Milliseconds(),
		MinSupport:    params.MinSupport,
		MinConfidence: params.MinConfidence,
	}
}

// RecommendStatus handles GET /api/v1/recommend-service/status.
func (h *Handler) RecommendStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status, err := h.engine.Status(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, status, start)
}

// RecommendRuns handles GET /api/v1/recommend-service/runs?limit=.
func (h *Handler) RecommendRuns(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := getIntParam(r, "limit", defaultRunsLimit)
	if err != nil || limit < 1 || limit > maxRunsLimit {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "limit must be an integer between 1 and 100", nil)
		return
	}

	runs, err := h.engine.Runs(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, runs, start)
}
