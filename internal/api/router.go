// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/middleware"
)

// Router builds the HTTP handler tree.
type Router struct {
	handler *Handler
	cfg     *config.Config
}

// NewRouter creates a router around the given handlers.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup configures all routes and the middleware stack.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Compress(5))

	corsOrigins := rt.cfg.Security.CORSOrigins
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Operational endpoints, outside the rate limit.
	r.Get("/health", rt.handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if !rt.cfg.Security.RateLimitDisabled {
			r.Use(httprate.LimitByIP(rt.cfg.Security.RateLimitReqs, rt.cfg.Security.RateLimitWindow))
		}
		r.Use(middleware.PrometheusMetrics)

		r.Get("/social-media/{platform}/{identifier}", rt.handler.SocialMedia)

		r.Get("/cache/{companyName}/{platform}/{identifier}", rt.handler.CachedSnapshot)
		r.Post("/cache/{companyName}/{platform}/{identifier}/refresh", rt.handler.RefreshCache)
		r.Delete("/cache/{platform}/{identifier}", rt.handler.InvalidateCache)

		r.Post("/direct/onchain/{identifier}", rt.handler.DirectOnchain)

		r.Get("/companies", rt.handler.ListCompanies)
		r.Put("/companies", rt.handler.UpsertCompany)
	})

	return r
}
