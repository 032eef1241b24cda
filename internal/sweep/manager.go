// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package sweep runs the background refresh of on-chain data for every
// registered company. The sweep is decoupled from request-driven
// refreshes: it runs on a fixed interval, isolates per-company failures
// (collect-and-continue, never abort), and exposes its last result for
// the health endpoint.
package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/logging"
	"github.com/jpcarmona/socialpulse/internal/metrics"
	"github.com/jpcarmona/socialpulse/internal/models"
)

// CompanyLister enumerates registered companies.
type CompanyLister interface {
	ListCompanies() ([]models.CompanyRecord, error)
}

// Refresher forces a cache refresh for one platform/identifier pair.
type Refresher interface {
	GetOrFetch(ctx context.Context, companyName string, p models.Platform, identifier string, forceRefresh bool) (*models.SocialMediaData, error)
}

// Manager owns the sweep loop.
type Manager struct {
	companies CompanyLister
	refresher Refresher
	interval  time.Duration

	mu      sync.RWMutex
	running bool
	last    *models.SweepStatus

	stopChan chan struct{}
	wg       sync.WaitGroup
	now      func() time.Time
}

// NewManager creates a sweep manager.
func NewManager(companies CompanyLister, refresher Refresher, cfg config.SweepConfig) *Manager {
	return &Manager{
		companies: companies,
		refresher: refresher,
		interval:  cfg.Interval,
		stopChan:  make(chan struct{}),
		now:       time.Now,
	}
}

// Start begins the periodic sweep loop.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("sweep manager is already running")
	}
	m.running = true
	m.mu.Unlock()

	logging.Info().Dur("interval", m.interval).Msg("Starting background sweep")

	m.wg.Add(1)
	go m.loop(ctx)
	return nil
}

// Stop halts the sweep loop and waits for any in-flight sweep to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	close(m.stopChan)
	m.wg.Wait()
	logging.Info().Msg("Background sweep stopped")
	return nil
}

// loop runs sweeps on the configured interval until stopped or the
// context is canceled.
func (m *Manager) loop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.RunOnce(ctx)
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs a single sweep over all registered companies,
// force-refreshing each company's on-chain snapshot. A failure for one
// company is recorded and the sweep continues with the next.
func (m *Manager) RunOnce(ctx context.Context) models.SweepStatus {
	started := m.now()
	status := models.SweepStatus{StartedAt: started}

	companies, err := m.companies.ListCompanies()
	if err != nil {
		status.Errors = append(status.Errors, fmt.Sprintf("list companies: %v", err))
		m.finish(&status, started)
		return status
	}

	for _, company := range companies {
		if ctx.Err() != nil {
			status.Errors = append(status.Errors, "sweep canceled")
			break
		}

		identifier, ok := company.Identifiers[models.PlatformOnchain]
		if !ok || identifier == "" {
			continue
		}

		_, err := m.refresher.GetOrFetch(ctx, company.Name, models.PlatformOnchain, identifier, true)
		if err != nil {
			status.Failed++
			status.Errors = append(status.Errors, fmt.Sprintf("%s (%s): %v", company.Name, identifier, err))
			logging.Warn().Err(err).Str("company", company.Name).Str("identifier", identifier).Msg("Sweep refresh failed")
			continue
		}
		status.Refreshed++
	}

	m.finish(&status, started)
	logging.Info().Int("refreshed", status.Refreshed).Int("failed", status.Failed).Int64("duration_ms", status.DurationMS).Msg("Sweep completed")
	return status
}

// LastResult returns a copy of the most recent sweep status, or nil when
// no sweep has run yet.
func (m *Manager) LastResult() *models.SweepStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return nil
	}
	last := *m.last
	return &last
}

func (m *Manager) finish(status *models.SweepStatus, started time.Time) {
	status.DurationMS = m.now().Sub(started).Milliseconds()
	metrics.RecordSweep(time.Duration(status.DurationMS)*time.Millisecond, status.Refreshed, status.Failed)

	m.mu.Lock()
	m.last = status
	m.mu.Unlock()
}
