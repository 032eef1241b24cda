// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package api provides HTTP routing and handlers using the Chi router.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/jpcarmona/socialpulse/internal/cache"
	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/models"
	"github.com/jpcarmona/socialpulse/internal/store"
)

// Orchestrator is the cache orchestrator surface the handlers use.
type Orchestrator interface {
	GetOrFetch(ctx context.Context, companyName string, p models.Platform, identifier string, forceRefresh bool) (*models.SocialMediaData, error)
	Cached(p models.Platform, identifier string) (*models.SocialMediaData, error)
	Invalidate(p models.Platform, identifier string) error
	FetchDirect(ctx context.Context, companyName string, p models.Platform, identifier string) (*models.SocialMediaData, error)
}

// CompanyStore is the document store surface the handlers use.
type CompanyStore interface {
	GetCompany(name string) (*models.CompanyRecord, error)
	PutCompany(rec *models.CompanyRecord) error
	ListCompanies() ([]models.CompanyRecord, error)
	Ping() bool
}

// SweepStatusProvider exposes the last background sweep result.
type SweepStatusProvider interface {
	LastResult() *models.SweepStatus
}

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	orchestrator Orchestrator
	companies    CompanyStore
	sweep        SweepStatusProvider
	cfg          *config.Config
}

// NewHandler creates the handler set. sweep may be nil when the
// background sweep is disabled.
func NewHandler(orchestrator Orchestrator, companies CompanyStore, sweep SweepStatusProvider, cfg *config.Config) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		companies:    companies,
		sweep:        sweep,
		cfg:          cfg,
	}
}

// metricsRequest is the validated shape of a social-media lookup.
type metricsRequest struct {
	Platform    string `validate:"required,platform"`
	Identifier  string `validate:"required"`
	CompanyName string `validate:"required"`
}

// SocialMedia handles GET /api/social-media/{platform}/{identifier}.
// Query params: companyName (required), refresh (optional bool).
func (h *Handler) SocialMedia(w http.ResponseWriter, r *http.Request) {
	req := metricsRequest{
		Platform:    chi.URLParam(r, "platform"),
		Identifier:  chi.URLParam(r, "identifier"),
		CompanyName: r.URL.Query().Get("companyName"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	platform, _ := models.ParsePlatform(req.Platform)
	forceRefresh := r.URL.Query().Get("refresh") == "true"

	started := time.Now()
	data, err := h.orchestrator.GetOrFetch(r.Context(), req.CompanyName, platform, req.Identifier, forceRefresh)
	if err != nil {
		h.respondFetchError(w, err)
		return
	}

	meta := models.Metadata{Cached: data.Source == models.SourceCache}
	if !meta.Cached {
		meta.QueryTimeMS = time.Since(started).Milliseconds()
	}
	respondSuccess(w, http.StatusOK, data, meta)
}

// CachedSnapshot handles GET /api/cache/{companyName}/{platform}/{identifier}.
// Returns the cached snapshot without touching the upstream, 404 on miss.
func (h *Handler) CachedSnapshot(w http.ResponseWriter, r *http.Request) {
	platform, err := models.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	data, err := h.orchestrator.Cached(platform, chi.URLParam(r, "identifier"))
	if errors.Is(err, cache.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "no cached snapshot for this key", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to read cache", err)
		return
	}

	respondSuccess(w, http.StatusOK, data, models.Metadata{Cached: true})
}

// refreshRequest is the optional body of a refresh call.
type refreshRequest struct {
	Force bool `json:"force"`
}

// RefreshCache handles POST /api/cache/{companyName}/{platform}/{identifier}/refresh.
// Forces normalization, updates the cache, and returns the raw snapshot.
func (h *Handler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	platform, err := models.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	// Body is optional; absence means force.
	req := refreshRequest{Force: true}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	data, err := h.orchestrator.GetOrFetch(r.Context(), chi.URLParam(r, "companyName"), platform, chi.URLParam(r, "identifier"), req.Force)
	if err != nil {
		h.respondFetchError(w, err)
		return
	}
	respondRaw(w, http.StatusOK, data)
}

// InvalidateCache handles DELETE /api/cache/{platform}/{identifier}.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	platform, err := models.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	if err := h.orchestrator.Invalidate(platform, chi.URLParam(r, "identifier")); err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to invalidate cache entry", err)
		return
	}
	respondSuccess(w, http.StatusOK, nil, models.Metadata{})
}

// directOnchainRequest is the body of a direct on-chain fetch.
type directOnchainRequest struct {
	CompanyName string `json:"companyName" validate:"required"`
}

// DirectOnchain handles POST /api/direct/onchain/{identifier}. Bypasses
// the cache entirely: fetches and reshapes on-chain data directly.
func (h *Handler) DirectOnchain(w http.ResponseWriter, r *http.Request) {
	var req directOnchainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be JSON with companyName", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	started := time.Now()
	data, err := h.orchestrator.FetchDirect(r.Context(), req.CompanyName, models.PlatformOnchain, chi.URLParam(r, "identifier"))
	if err != nil {
		h.respondFetchError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, data, models.Metadata{QueryTimeMS: time.Since(started).Milliseconds()})
}

// ListCompanies handles GET /api/companies.
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.ListCompanies()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to list companies", err)
		return
	}
	if companies == nil {
		companies = []models.CompanyRecord{}
	}
	respondSuccess(w, http.StatusOK, companies, models.Metadata{})
}

// companyRequest is the body of a company registration.
type companyRequest struct {
	Name        string            `json:"name" validate:"required"`
	Identifiers map[string]string `json:"identifiers" validate:"required,min=1"`
}

// UpsertCompany handles PUT /api/companies. Registers or updates a
// company and its per-platform identifiers.
func (h *Handler) UpsertCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be JSON", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	identifiers := make(map[models.Platform]string, len(req.Identifiers))
	for name, identifier := range req.Identifiers {
		platform, err := models.ParsePlatform(name)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		identifiers[platform] = identifier
	}

	rec := &models.CompanyRecord{
		Name:        req.Name,
		Identifiers: identifiers,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := h.companies.PutCompany(rec); err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to store company", err)
		return
	}
	respondSuccess(w, http.StatusOK, rec, models.Metadata{})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:          "ok",
		Environment:     h.cfg.Server.Environment,
		HasAPIKey:       h.hasAnyAPIKey(),
		HasDBConnection: h.companies.Ping(),
	}
	if h.sweep != nil {
		resp.LastSweep = h.sweep.LastResult()
	}
	if !resp.HasDBConnection {
		resp.Status = "degraded"
	}
	respondRaw(w, http.StatusOK, resp)
}

func (h *Handler) hasAnyAPIKey() bool {
	return h.cfg.Twitter.APIKey != "" ||
		h.cfg.LinkedIn.APIKey != "" ||
		h.cfg.Telegram.APIKey != "" ||
		h.cfg.Onchain.APIKey != "" ||
		h.cfg.Summary.APIKey != ""
}

// respondFetchError maps orchestrator failures to API errors.
func (h *Handler) respondFetchError(w http.ResponseWriter, err error) {
	var upErr *cache.UpstreamError
	if errors.As(err, &upErr) {
		respondError(w, http.StatusInternalServerError, "UPSTREAM_ERROR", upErr.Error(), err)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "entry not found", nil)
		return
	}
	respondError(w, http.StatusInternalServerError, "STORE_ERROR", "internal storage failure", err)
}
