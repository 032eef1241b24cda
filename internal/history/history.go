// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package history maintains bounded follower-count series and computes the
// 24h/7d deltas reported in FollowerStats.
//
// Series are append-mostly: a write lands in the most recent row when that
// row is younger than the coalescing window (avoids dense duplicate rows),
// otherwise it appends. Lookups scan for the most recent point at or before
// a target timestamp and treat "no history yet" as "no change". Pruning is
// best effort; stale points are tolerated because lookups always scan.
package history

import (
	"math"
	"time"

	"github.com/jpcarmona/socialpulse/internal/models"
)

const (
	// CoalesceWindow collapses writes into the latest row when it is
	// younger than this.
	CoalesceWindow = time.Hour

	// RetentionWindow bounds how much history is kept.
	RetentionWindow = 30 * 24 * time.Hour
)

// FindAtOrBefore returns the most recent point whose timestamp is at or
// before target (epoch ms). The series may be in any order.
func FindAtOrBefore(points []models.HistoryPoint, target int64) (models.HistoryPoint, bool) {
	var best models.HistoryPoint
	found := false
	for _, p := range points {
		if p.Timestamp <= target && (!found || p.Timestamp > best.Timestamp) {
			best = p
			found = true
		}
	}
	return best, found
}

// Append records an observation, collapsing into the latest row when that
// row was written within the coalescing window. Returns the updated series.
func Append(points []models.HistoryPoint, point models.HistoryPoint, coalesce time.Duration) []models.HistoryPoint {
	if n := len(points); n > 0 {
		latest := &points[n-1]
		if point.Timestamp-latest.Timestamp < coalesce.Milliseconds() {
			latest.Timestamp = point.Timestamp
			latest.Count = point.Count
			return points
		}
	}
	return append(points, point)
}

// PruneOlderThan drops points older than cutoff (epoch ms).
func PruneOlderThan(points []models.HistoryPoint, cutoff int64) []models.HistoryPoint {
	kept := points[:0]
	for _, p := range points {
		if p.Timestamp >= cutoff {
			kept = append(kept, p)
		}
	}
	return kept
}

// ComputeChange builds the {count, percentage} delta of current against a
// reference value. Percentage is rounded to two decimals and is 0 when the
// reference is 0.
func ComputeChange(current, reference int64) models.ChangeStat {
	delta := float64(current - reference)
	stat := models.ChangeStat{Count: delta}
	if reference != 0 {
		stat.Percentage = Round2(delta / float64(reference) * 100)
	}
	return stat
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SeriesStore is the slice of the document store the tracker needs.
type SeriesStore interface {
	GetHistory(seriesKey string) ([]models.HistoryPoint, error)
	PutHistory(seriesKey string, points []models.HistoryPoint) error
}

// Tracker persists follower series through a SeriesStore.
type Tracker struct {
	store SeriesStore
}

// NewTracker creates a tracker over the given store.
func NewTracker(s SeriesStore) *Tracker {
	return &Tracker{store: s}
}

// Record stores a follower-count observation for seriesKey, coalescing
// into the latest row when it is younger than an hour, and prunes points
// outside the retention window.
func (t *Tracker) Record(seriesKey string, count int64, now time.Time) error {
	points, err := t.store.GetHistory(seriesKey)
	if err != nil {
		return err
	}

	points = Append(points, models.HistoryPoint{Timestamp: now.UnixMilli(), Count: count}, CoalesceWindow)
	points = PruneOlderThan(points, now.Add(-RetentionWindow).UnixMilli())

	return t.store.PutHistory(seriesKey, points)
}

// Changes computes the 24h and 7d deltas of current against the stored
// series. When no point exists at or before an offset, the current value
// itself is the reference, yielding a zero change.
func (t *Tracker) Changes(seriesKey string, current int64, now time.Time) (oneDay, oneWeek models.ChangeStat, err error) {
	points, err := t.store.GetHistory(seriesKey)
	if err != nil {
		return models.ChangeStat{}, models.ChangeStat{}, err
	}

	oneDay = changeAgainst(points, current, now.Add(-24*time.Hour).UnixMilli())
	oneWeek = changeAgainst(points, current, now.Add(-7*24*time.Hour).UnixMilli())
	return oneDay, oneWeek, nil
}

// changeAgainst resolves the reference point for a window and computes the
// delta. Missing reference means no change.
func changeAgainst(points []models.HistoryPoint, current int64, target int64) models.ChangeStat {
	reference := current
	if p, ok := FindAtOrBefore(points, target); ok {
		reference = p.Count
	}
	return ComputeChange(current, reference)
}
