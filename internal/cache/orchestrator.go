// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package cache implements the freshness orchestrator: per
// (platform, identifier) key it decides fetch-fresh vs serve-cached vs
// serve-stale-on-error, and writes results back with an expiry timestamp.
//
// The cache key is platform-qualified but does not include the company
// name: two companies sharing an external identifier intentionally share
// the cached snapshot.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/logging"
	"github.com/jpcarmona/socialpulse/internal/metrics"
	"github.com/jpcarmona/socialpulse/internal/models"
	"github.com/jpcarmona/socialpulse/internal/platform"
	"github.com/jpcarmona/socialpulse/internal/store"
)

// ErrNotFound indicates no cached entry exists for the requested key.
var ErrNotFound = errors.New("cache: entry not found")

// UpstreamError is the hard failure raised when an on-chain fetch fails
// with no cached fallback. The social platforms degrade to a soft-failure
// payload instead; fee data has no meaningful zeroed shape.
type UpstreamError struct {
	Platform   models.Platform
	Identifier string
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s fetch for %q failed: %v", e.Platform, e.Identifier, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// EntryStore is the slice of the document store the orchestrator needs.
type EntryStore interface {
	GetEntry(key string) (*models.CacheEntry, error)
	PutEntry(entry *models.CacheEntry) error
	DeleteEntry(key string) error
	DeleteEntriesWithPrefix(prefix string) (int, error)
}

// Orchestrator owns cache entries: it is the sole writer of the cache
// collection.
type Orchestrator struct {
	store      EntryStore
	registry   *platform.Registry
	socialTTL  time.Duration
	onchainTTL time.Duration
	now        func() time.Time
}

// New creates an orchestrator over the given store and normalizer
// registry.
func New(s EntryStore, registry *platform.Registry, cfg config.CacheConfig) *Orchestrator {
	return &Orchestrator{
		store:      s,
		registry:   registry,
		socialTTL:  cfg.SocialTTL,
		onchainTTL: cfg.OnchainTTL,
		now:        time.Now,
	}
}

// Key returns the canonical cache key for a platform/identifier pair.
func Key(p models.Platform, identifier string) string {
	return string(p) + ":" + identifier
}

// TTL returns the freshness window for a platform.
func (o *Orchestrator) TTL(p models.Platform) time.Duration {
	if p == models.PlatformOnchain {
		return o.onchainTTL
	}
	return o.socialTTL
}

// GetOrFetch returns the snapshot for (platform, identifier), serving a
// live cache entry when one exists, otherwise fetching fresh data and
// caching it.
//
// Failure policy: when the upstream fetch fails and any cached entry
// exists (even expired), the stale entry is served. With no fallback, the
// social platforms return a degraded success=false payload; the on-chain
// platform returns an UpstreamError.
func (o *Orchestrator) GetOrFetch(ctx context.Context, companyName string, p models.Platform, identifier string, forceRefresh bool) (*models.SocialMediaData, error) {
	key := Key(p, identifier)
	now := o.now()

	o.purgeLegacyKeys(key)

	entry, err := o.store.GetEntry(key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("read cache entry %s: %w", key, err)
	}

	if !forceRefresh && entry != nil && entry.Live(now) {
		metrics.CacheHits.WithLabelValues(string(p)).Inc()
		return o.annotateCached(entry, p), nil
	}
	metrics.CacheMisses.WithLabelValues(string(p)).Inc()

	normalizer, ok := o.registry.Get(p)
	if !ok {
		return nil, fmt.Errorf("no normalizer registered for platform %s", p)
	}

	data, fetchErr := normalizer.Fetch(ctx, identifier, companyName)
	if fetchErr == nil {
		ttl := o.TTL(p)
		data.Source = models.SourceAPI
		data.LastUpdated = now.UTC().Format(time.RFC3339)
		data.ExpiresAt = now.UnixMilli() + ttl.Milliseconds()

		newEntry := &models.CacheEntry{
			Key:         key,
			Data:        *data,
			LastUpdated: now.UnixMilli(),
			ExpiresAt:   now.UnixMilli() + ttl.Milliseconds(),
		}
		if err := o.store.PutEntry(newEntry); err != nil {
			return nil, fmt.Errorf("write cache entry %s: %w", key, err)
		}
		return data, nil
	}

	logging.Warn().Err(fetchErr).Str("platform", string(p)).Str("identifier", identifier).Msg("Upstream fetch failed")

	// Stale-while-error: any cached entry beats an outage.
	if entry != nil {
		metrics.CacheStaleServes.WithLabelValues(string(p)).Inc()
		logging.Info().Str("key", key).Msg("Serving stale cache entry after fetch failure")
		return o.annotateCached(entry, p), nil
	}

	if p == models.PlatformOnchain {
		return nil, &UpstreamError{Platform: p, Identifier: identifier, Err: fetchErr}
	}
	return softFailure(p, identifier, companyName, fetchErr, now), nil
}

// Cached returns the cached snapshot for (platform, identifier) without
// touching the upstream, or ErrNotFound on a miss. Expired entries are
// still returned; the caller sees the original expiry in the payload.
func (o *Orchestrator) Cached(p models.Platform, identifier string) (*models.SocialMediaData, error) {
	entry, err := o.store.GetEntry(Key(p, identifier))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}
	return o.annotateCached(entry, p), nil
}

// Invalidate removes the cached entry for (platform, identifier).
func (o *Orchestrator) Invalidate(p models.Platform, identifier string) error {
	return o.store.DeleteEntry(Key(p, identifier))
}

// FetchDirect bypasses the cache entirely: it fetches and normalizes
// fresh data without reading or writing the store.
func (o *Orchestrator) FetchDirect(ctx context.Context, companyName string, p models.Platform, identifier string) (*models.SocialMediaData, error) {
	normalizer, ok := o.registry.Get(p)
	if !ok {
		return nil, fmt.Errorf("no normalizer registered for platform %s", p)
	}
	data, err := normalizer.Fetch(ctx, identifier, companyName)
	if err != nil {
		return nil, &UpstreamError{Platform: p, Identifier: identifier, Err: err}
	}
	data.Source = models.SourceAPI
	data.LastUpdated = o.now().UTC().Format(time.RFC3339)
	return data, nil
}

// annotateCached copies the stored snapshot and marks it as served from
// cache. LastUpdated falls back to expiresAt - TTL for rows written
// before the field existed.
func (o *Orchestrator) annotateCached(entry *models.CacheEntry, p models.Platform) *models.SocialMediaData {
	data := entry.Data
	data.Source = models.SourceCache

	lastUpdated := entry.LastUpdated
	if lastUpdated == 0 {
		lastUpdated = entry.ExpiresAt - o.TTL(p).Milliseconds()
	}
	data.LastUpdated = time.UnixMilli(lastUpdated).UTC().Format(time.RFC3339)
	data.ExpiresAt = entry.ExpiresAt
	return &data
}

// purgeLegacyKeys removes rows left behind by the deprecated
// timestamp-suffixed key scheme ("<platform>:<identifier>:<epoch>").
// Best effort: failures are logged, never fatal.
func (o *Orchestrator) purgeLegacyKeys(key string) {
	removed, err := o.store.DeleteEntriesWithPrefix(key + ":")
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Legacy cache key cleanup failed")
		return
	}
	if removed > 0 {
		logging.Info().Int("removed", removed).Str("key", key).Msg("Purged legacy cache keys")
	}
}

// softFailure builds the degraded payload served when a social platform
// fetch fails with no cached fallback. Structurally valid, numerically
// zeroed, never cached.
func softFailure(p models.Platform, identifier, companyName string, err error, now time.Time) *models.SocialMediaData {
	return &models.SocialMediaData{
		Success:     false,
		Error:       err.Error(),
		Platform:    p,
		Identifier:  identifier,
		CompanyName: companyName,
		Posts:       []models.Post{},
		Source:      models.SourceError,
		LastUpdated: now.UTC().Format(time.RFC3339),
	}
}
