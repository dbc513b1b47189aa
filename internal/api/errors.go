// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/basketrules/internal/database"
	"github.com/tomtom215/basketrules/internal/mining"
	"github.com/tomtom215/basketrules/internal/recommend"
	"github.com/tomtom215/basketrules/internal/runlog"
)

// Error codes returned in APIError.Code.
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeInvalidParameter    = "INVALID_PARAMETER"
	ErrCodeRunInProgress       = "RUN_IN_PROGRESS"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeTimeout             = "TIMEOUT"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// respondServiceError maps an engine or store error to a status and code.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, mining.ErrInvalidParameter):
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, err.Error(), nil)
	case errors.Is(err, mining.ErrInvalidItem):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
	case errors.Is(err, recommend.ErrRunInProgress):
		respondError(w, r, http.StatusConflict, ErrCodeRunInProgress, "A mining run is already in progress", nil)
	case errors.Is(err, database.ErrTransactionExists):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, err.Error(), nil)
	case errors.Is(err, runlog.ErrRunNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Run not found", nil)
	case errors.Is(err, database.ErrUpstreamUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUpstreamUnavailable, "Storage is temporarily unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", err)
	}
}
