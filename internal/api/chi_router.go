// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/basketrules/internal/auth"
	"github.com/tomtom215/basketrules/internal/middleware"
)

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. chiCfg may be nil for defaults.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, chiCfg *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		auth:          authMiddleware,
		chiMiddleware: NewChiMiddleware(chiCfg),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Route("/recommend-service", func(r chi.Router) {
			r.Use(router.auth.Authenticate)
			r.Use(router.auth.RequireRole(auth.RoleAdmin))
			r.With(router.chiMiddleware.RateLimitMining()).Post("/", router.handler.GenerateRules)
			r.Get("/status", router.handler.RecommendStatus)
			r.Get("/runs", router.handler.RecommendRuns)
		})

		r.Route("/association-rules", func(r chi.Router) {
			r.With(
				router.auth.Authenticate,
				router.auth.RequireRole(auth.RoleAdmin),
			).Get("/paging", router.handler.RulesPaging)
			// Storefront pages ask for suggestions anonymously.
			r.Get("/suggestion", router.handler.RulesSuggestion)
		})

		r.With(
			router.chiMiddleware.RateLimitWrite(),
			router.auth.Authenticate,
			router.auth.RequireRole(auth.RoleViewer),
		).Post("/transactions", router.handler.CreateTransaction)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
