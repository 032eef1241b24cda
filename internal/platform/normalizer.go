// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package platform contains the per-platform metric normalizers: the code
// that pulls one upstream's raw JSON payload and reshapes it into the
// canonical SocialMediaData snapshot, computing derived metrics along the
// way.
//
// Each normalizer splits fetch (HTTP, fallible) from normalize (pure):
// repeated normalize calls on the same raw payload and history state
// produce identical output.
package platform

import (
	"context"
	"math"
	"time"

	"github.com/jpcarmona/socialpulse/internal/history"
	"github.com/jpcarmona/socialpulse/internal/models"
)

// Normalizer fetches and reshapes one platform's data into the canonical
// snapshot. Fetch returns a hard error only for unrecoverable upstream
// failures; the caller decides whether to degrade or surface it.
type Normalizer interface {
	Platform() models.Platform
	Fetch(ctx context.Context, identifier, companyName string) (*models.SocialMediaData, error)
}

// Summarizer produces a short text summary from recent post texts.
// Implementations fail soft: on any error the summary is an empty string.
type Summarizer interface {
	Summarize(ctx context.Context, texts []string) string
}

// FollowerHistory is the slice of the history tracker normalizers use to
// record observations and compute 24h/7d deltas.
type FollowerHistory interface {
	Record(seriesKey string, count int64, now time.Time) error
	Changes(seriesKey string, current int64, now time.Time) (oneDay, oneWeek models.ChangeStat, err error)
}

// Registry maps platforms to their normalizers.
type Registry struct {
	normalizers map[models.Platform]Normalizer
}

// NewRegistry builds a registry from the given normalizers.
func NewRegistry(ns ...Normalizer) *Registry {
	r := &Registry{normalizers: make(map[models.Platform]Normalizer, len(ns))}
	for _, n := range ns {
		r.normalizers[n.Platform()] = n
	}
	return r
}

// Get returns the normalizer for a platform.
func (r *Registry) Get(p models.Platform) (Normalizer, bool) {
	n, ok := r.normalizers[p]
	return n, ok
}

// Growth returns the percentage change of cur against prev, 0 when prev
// is 0.
func Growth(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

// EngagementRate returns the aggregate engagement percentage
// (totalEngagements / (followers x posts) x 100), 0 when either
// denominator term is 0.
func EngagementRate(totalEngagements int64, followers, posts int64) float64 {
	if followers == 0 || posts == 0 {
		return 0
	}
	return float64(totalEngagements) / (float64(followers) * float64(posts)) * 100
}

// perPostEngagement averages each post's engagement against the follower
// count ((likes+comments+shares)/followers x 100 per post). 0 with no
// followers or no posts.
func perPostEngagement(posts []models.Post, followers int64) float64 {
	if followers == 0 || len(posts) == 0 {
		return 0
	}
	var total float64
	for _, p := range posts {
		total += float64(p.Likes+p.Comments+p.Shares) / float64(followers) * 100
	}
	return total / float64(len(posts))
}

// windowSums sums likes/comments/shares over posts dated at or after the
// cutoff, returning the sums and the post count within the window.
func windowSums(posts []models.Post, cutoff time.Time) (likes, comments, shares, count int64) {
	for _, p := range posts {
		if !p.Date.Before(cutoff) {
			likes += p.Likes
			comments += p.Comments
			shares += p.Shares
			count++
		}
	}
	return likes, comments, shares, count
}

// coalesceFloat returns the first non-zero candidate, or 0. Fallback
// chains for optional upstream fields are expressed through this so the
// fallback order reads as data.
func coalesceFloat(candidates ...float64) float64 {
	for _, c := range candidates {
		if c != 0 {
			return c
		}
	}
	return 0
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return history.Round2(v)
}

// ceilInt64 is the integer ceiling of v, never negative.
func ceilInt64(v float64) int64 {
	if v <= 0 {
		return 0
	}
	return int64(math.Ceil(v))
}

// postTexts extracts up to max post texts for summarization, skipping
// empty bodies.
func postTexts(posts []models.Post, max int) []string {
	texts := make([]string, 0, max)
	for _, p := range posts {
		if p.Text == "" {
			continue
		}
		texts = append(texts, p.Text)
		if len(texts) == max {
			break
		}
	}
	return texts
}
