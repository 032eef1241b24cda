// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package history

import (
	"testing"
	"time"

	"github.com/jpcarmona/socialpulse/internal/models"
)

// memSeriesStore is an in-memory SeriesStore for tests.
type memSeriesStore struct {
	series map[string][]models.HistoryPoint
}

func newMemSeriesStore() *memSeriesStore {
	return &memSeriesStore{series: make(map[string][]models.HistoryPoint)}
}

func (m *memSeriesStore) GetHistory(key string) ([]models.HistoryPoint, error) {
	return m.series[key], nil
}

func (m *memSeriesStore) PutHistory(key string, points []models.HistoryPoint) error {
	m.series[key] = append([]models.HistoryPoint(nil), points...)
	return nil
}

func TestFindAtOrBefore(t *testing.T) {
	points := []models.HistoryPoint{
		{Timestamp: 100, Count: 10},
		{Timestamp: 200, Count: 20},
		{Timestamp: 300, Count: 30},
	}

	tests := []struct {
		name      string
		target    int64
		wantCount int64
		wantFound bool
	}{
		{"exact match", 200, 20, true},
		{"between points picks earlier", 250, 20, true},
		{"after all picks latest", 999, 30, true},
		{"before all finds nothing", 50, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, found := FindAtOrBefore(points, tt.target)
			if found != tt.wantFound {
				t.Fatalf("found=%v, want %v", found, tt.wantFound)
			}
			if found && p.Count != tt.wantCount {
				t.Errorf("count=%d, want %d", p.Count, tt.wantCount)
			}
		})
	}
}

func TestAppendCoalescesRecentRow(t *testing.T) {
	base := time.Now().UnixMilli()
	points := []models.HistoryPoint{{Timestamp: base, Count: 100}}

	// Within the window: the latest row is updated in place.
	points = Append(points, models.HistoryPoint{Timestamp: base + (30 * time.Minute).Milliseconds(), Count: 110}, time.Hour)
	if len(points) != 1 {
		t.Fatalf("expected coalesced single row, got %d", len(points))
	}
	if points[0].Count != 110 {
		t.Errorf("expected updated count 110, got %d", points[0].Count)
	}

	// Past the window: a new row is appended.
	points = Append(points, models.HistoryPoint{Timestamp: base + (3 * time.Hour).Milliseconds(), Count: 120}, time.Hour)
	if len(points) != 2 {
		t.Fatalf("expected appended row, got %d rows", len(points))
	}
	if points[1].Count != 120 {
		t.Errorf("expected appended count 120, got %d", points[1].Count)
	}
}

func TestPruneOlderThan(t *testing.T) {
	points := []models.HistoryPoint{
		{Timestamp: 100, Count: 1},
		{Timestamp: 200, Count: 2},
		{Timestamp: 300, Count: 3},
	}

	pruned := PruneOlderThan(points, 200)
	if len(pruned) != 2 {
		t.Fatalf("expected 2 points after prune, got %d", len(pruned))
	}
	if pruned[0].Timestamp != 200 {
		t.Errorf("expected cutoff point retained, got ts=%d", pruned[0].Timestamp)
	}
}

func TestComputeChange(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		ref      int64
		wantCnt  float64
		wantPct  float64
	}{
		{"growth", 200, 150, 50, 33.33},
		{"decline", 90, 100, -10, -10},
		{"zero reference yields zero percentage", 500, 0, 500, 0},
		{"no change", 100, 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeChange(tt.current, tt.ref)
			if got.Count != tt.wantCnt {
				t.Errorf("count=%v, want %v", got.Count, tt.wantCnt)
			}
			if got.Percentage != tt.wantPct {
				t.Errorf("percentage=%v, want %v", got.Percentage, tt.wantPct)
			}
		})
	}
}

// The canonical delta scenario: history at -10d (100) and -2d (150) with a
// current count of 200 yields +50 over one day (the -2d point is the most
// recent at or before the 24h offset) and +100 over one week.
func TestTrackerChangesWindowFallback(t *testing.T) {
	now := time.Now()
	ms := newMemSeriesStore()
	ms.series["twitter:acme"] = []models.HistoryPoint{
		{Timestamp: now.Add(-10 * 24 * time.Hour).UnixMilli(), Count: 100},
		{Timestamp: now.Add(-2 * 24 * time.Hour).UnixMilli(), Count: 150},
	}

	tracker := NewTracker(ms)
	oneDay, oneWeek, err := tracker.Changes("twitter:acme", 200, now)
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}

	if oneDay.Count != 50 {
		t.Errorf("oneDayChange.count=%v, want 50", oneDay.Count)
	}
	if oneDay.Percentage != 33.33 {
		t.Errorf("oneDayChange.percentage=%v, want 33.33", oneDay.Percentage)
	}
	if oneWeek.Count != 100 {
		t.Errorf("oneWeekChange.count=%v, want 100", oneWeek.Count)
	}
	if oneWeek.Percentage != 100 {
		t.Errorf("oneWeekChange.percentage=%v, want 100", oneWeek.Percentage)
	}
}

func TestTrackerChangesNoHistory(t *testing.T) {
	tracker := NewTracker(newMemSeriesStore())

	oneDay, oneWeek, err := tracker.Changes("twitter:new", 500, time.Now())
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if oneDay.Count != 0 || oneDay.Percentage != 0 {
		t.Errorf("expected zero one-day change with no history, got %+v", oneDay)
	}
	if oneWeek.Count != 0 || oneWeek.Percentage != 0 {
		t.Errorf("expected zero one-week change with no history, got %+v", oneWeek)
	}
}

func TestTrackerRecordCoalescesAndPrunes(t *testing.T) {
	now := time.Now()
	ms := newMemSeriesStore()
	ms.series["twitter:acme"] = []models.HistoryPoint{
		{Timestamp: now.Add(-40 * 24 * time.Hour).UnixMilli(), Count: 10}, // outside retention
		{Timestamp: now.Add(-30 * time.Minute).UnixMilli(), Count: 100},   // inside coalesce window
	}

	tracker := NewTracker(ms)
	if err := tracker.Record("twitter:acme", 120, now); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got := ms.series["twitter:acme"]
	if len(got) != 1 {
		t.Fatalf("expected 1 point (coalesced + pruned), got %d", len(got))
	}
	if got[0].Count != 120 {
		t.Errorf("expected coalesced count 120, got %d", got[0].Count)
	}
}
