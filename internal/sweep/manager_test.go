// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package sweep

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/models"
)

type fakeLister struct {
	companies []models.CompanyRecord
	err       error
}

func (f *fakeLister) ListCompanies() ([]models.CompanyRecord, error) {
	return f.companies, f.err
}

type fakeRefresher struct {
	failFor map[string]error
	calls   []string
}

func (f *fakeRefresher) GetOrFetch(_ context.Context, companyName string, p models.Platform, identifier string, force bool) (*models.SocialMediaData, error) {
	f.calls = append(f.calls, identifier)
	if !force {
		return nil, errors.New("sweep must force refresh")
	}
	if err, ok := f.failFor[identifier]; ok {
		return nil, err
	}
	return &models.SocialMediaData{Success: true, Platform: p, Identifier: identifier, CompanyName: companyName}, nil
}

func company(name, onchainID string) models.CompanyRecord {
	identifiers := map[models.Platform]string{}
	if onchainID != "" {
		identifiers[models.PlatformOnchain] = onchainID
	}
	return models.CompanyRecord{Name: name, Identifiers: identifiers}
}

func TestRunOnceRefreshesAllOnchainIdentifiers(t *testing.T) {
	lister := &fakeLister{companies: []models.CompanyRecord{
		company("Uniswap Labs", "uniswap"),
		company("No Chain Co", ""),
		company("Aave", "aave"),
	}}
	refresher := &fakeRefresher{}
	m := NewManager(lister, refresher, config.SweepConfig{Interval: 6 * time.Hour})

	status := m.RunOnce(context.Background())

	if status.Refreshed != 2 {
		t.Errorf("refreshed = %d, want 2", status.Refreshed)
	}
	if status.Failed != 0 {
		t.Errorf("failed = %d, want 0", status.Failed)
	}
	if len(refresher.calls) != 2 {
		t.Errorf("expected 2 refresh calls, got %v", refresher.calls)
	}
}

func TestRunOnceIsolatesPerItemFailures(t *testing.T) {
	lister := &fakeLister{companies: []models.CompanyRecord{
		company("Broken", "broken"),
		company("Uniswap Labs", "uniswap"),
	}}
	refresher := &fakeRefresher{failFor: map[string]error{"broken": errors.New("HTTP 502")}}
	m := NewManager(lister, refresher, config.SweepConfig{Interval: 6 * time.Hour})

	status := m.RunOnce(context.Background())

	if status.Failed != 1 || status.Refreshed != 1 {
		t.Errorf("failed/refreshed = %d/%d, want 1/1", status.Failed, status.Refreshed)
	}
	if len(status.Errors) != 1 || !strings.Contains(status.Errors[0], "broken") {
		t.Errorf("expected broken item recorded, got %v", status.Errors)
	}
	// The failure did not abort the sweep.
	if len(refresher.calls) != 2 {
		t.Errorf("expected sweep to continue after failure, calls = %v", refresher.calls)
	}
}

func TestRunOnceListFailure(t *testing.T) {
	lister := &fakeLister{err: errors.New("store down")}
	m := NewManager(lister, &fakeRefresher{}, config.SweepConfig{Interval: 6 * time.Hour})

	status := m.RunOnce(context.Background())

	if len(status.Errors) != 1 {
		t.Fatalf("expected one error, got %v", status.Errors)
	}
	if status.Refreshed != 0 {
		t.Errorf("refreshed = %d, want 0", status.Refreshed)
	}
}

func TestLastResult(t *testing.T) {
	m := NewManager(&fakeLister{}, &fakeRefresher{}, config.SweepConfig{Interval: 6 * time.Hour})

	if m.LastResult() != nil {
		t.Error("expected nil before first sweep")
	}

	m.RunOnce(context.Background())

	last := m.LastResult()
	if last == nil {
		t.Fatal("expected result after sweep")
	}
	if last.StartedAt.IsZero() {
		t.Error("expected startedAt to be set")
	}

	// The returned status is a copy, not a live reference.
	last.Refreshed = 999
	if m.LastResult().Refreshed == 999 {
		t.Error("LastResult leaked internal state")
	}
}

func TestRunOnceRespectsCancellation(t *testing.T) {
	lister := &fakeLister{companies: []models.CompanyRecord{
		company("Uniswap Labs", "uniswap"),
		company("Aave", "aave"),
	}}
	refresher := &fakeRefresher{}
	m := NewManager(lister, refresher, config.SweepConfig{Interval: 6 * time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status := m.RunOnce(ctx)
	if status.Refreshed != 0 {
		t.Errorf("canceled sweep refreshed %d items", status.Refreshed)
	}
	if len(refresher.calls) != 0 {
		t.Errorf("canceled sweep still called upstream: %v", refresher.calls)
	}
}

func TestStartStop(t *testing.T) {
	m := NewManager(&fakeLister{}, &fakeRefresher{}, config.SweepConfig{Interval: time.Hour})

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Errorf("second Stop should be a no-op: %v", err)
	}
}
