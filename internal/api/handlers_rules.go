// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/basketrules/internal/models"
	"github.com/tomtom215/basketrules/internal/recommend"
)

const (
	defaultPageIndex = 1
	defaultPageSize  = 20
)

// RulesPaging handles GET /api/v1/association-rules/paging.
// pageIndex is one based; sort names a rule metric and direction is asc or desc.
func (h *Handler) RulesPaging(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	pageIndex, err := getIntParam(r, "pageIndex", defaultPageIndex)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	pageSize, err := getIntParam(r, "pageSize", defaultPageSize)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	q := models.RuleQuery{
		PageIndex: pageIndex,
		PageSize:  pageSize,
		Sort:      strings.TrimSpace(r.URL.Query().Get("sort")),
		Direction: strings.TrimSpace(r.URL.Query().Get("direction")),
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	page, err := h.engine.ListRules(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, page, start)
}

// RulesSuggestion handles GET /api/v1/association-rules/suggestion?ids=a;b&limit=.
// Without ids the most purchased products are returned.
func (h *Handler) RulesSuggestion(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := getIntParam(r, "limit", 0)
	if err != nil || limit < 0 || limit > recommend.MaxSuggestionLimit {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "limit must be an integer between 0 and 100", nil)
		return
	}

	ids := splitIDs(r.URL.Query().Get("ids"))
	suggestion, err := h.engine.Suggest(r.Context(), ids, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, suggestion, start)
}
