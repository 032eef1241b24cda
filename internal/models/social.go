// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package models defines the canonical data shapes shared across the
// application: the per-platform SocialMediaData snapshot, cache entries,
// history points, and the API response envelope.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Platform identifies a supported data source.
type Platform string

// Supported platforms. The string values appear in URLs, cache keys, and
// stored payloads, so they are lowercase and stable.
const (
	PlatformLinkedIn Platform = "linkedin"
	PlatformTwitter  Platform = "twitter"
	PlatformTelegram Platform = "telegram"
	PlatformMedium   Platform = "medium"
	PlatformOnchain  Platform = "onchain"
)

// AllPlatforms lists every supported platform in a stable order.
var AllPlatforms = []Platform{
	PlatformLinkedIn,
	PlatformTwitter,
	PlatformTelegram,
	PlatformMedium,
	PlatformOnchain,
}

// ParsePlatform converts a URL path segment to a Platform.
// Matching is case-insensitive. Returns an error for unknown values.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unsupported platform %q", s)
	}
	return p, nil
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformLinkedIn, PlatformTwitter, PlatformTelegram, PlatformMedium, PlatformOnchain:
		return true
	}
	return false
}

// Source values for SocialMediaData annotation.
const (
	SourceCache = "cache"
	SourceAPI   = "api"
	SourceError = "error"
)

// ChangeStat captures an absolute and relative change over a time window.
type ChangeStat struct {
	Count      float64 `json:"count"`
	Percentage float64 `json:"percentage"`
}

// FollowerStats holds the current follower count and its 24h/7d deltas,
// computed against the follower history series.
type FollowerStats struct {
	Current        int64      `json:"current"`
	TotalFollowers int64      `json:"totalFollowers"`
	OneDayChange   ChangeStat `json:"oneDayChange"`
	OneWeekChange  ChangeStat `json:"oneWeekChange"`
}

// Post is a single normalized content item. Likes/Comments/Shares map to
// the closest platform equivalents (e.g. views/replies/forwards on
// Telegram, favorites/replies/retweets on Twitter).
type Post struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
	Likes    int64     `json:"likes"`
	Comments int64     `json:"comments"`
	Shares   int64     `json:"shares"`
}

// NameCount is a labeled count, used for employee-distribution breakdowns.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Profile holds the common profile attributes plus a free-form Extra map
// for platform-specific fields (chains/category for on-chain protocols,
// funding data for LinkedIn, and so on).
type Profile struct {
	Name      string         `json:"name"`
	Bio       string         `json:"bio,omitempty"`
	Followers int64          `json:"followers"`
	PostCount int64          `json:"postCount"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// ContentAnalysis aggregates engagement metrics over the normalized posts.
// Metrics holds named counts and rates (last24h sums, 7d frequency,
// averaged per-post engagement) whose exact keys vary per platform.
type ContentAnalysis struct {
	EngagementRate float64            `json:"engagementRate"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
}

// OnchainMetrics holds the fee-derived metrics for protocol identifiers.
//
// Transactions, UniqueAddresses, and AvgTxValue are explicit approximations
// derived from daily fees when the upstream does not report them. They are
// estimates, not ground truth.
type OnchainMetrics struct {
	DailyFees          float64    `json:"dailyFees"`
	PreviousDayFees    float64    `json:"previousDayFees"`
	DailyChangePercent float64    `json:"dailyChangePercent"`
	WeeklyFees         float64    `json:"weeklyFees"`
	TotalAllTime       float64    `json:"totalAllTime"`
	Transactions       int64      `json:"transactions"`
	UniqueAddresses    int64      `json:"uniqueAddresses"`
	AvgTxValue         float64    `json:"avgTxValue"`
	DailyFeeHistory    []FeePoint `json:"dailyFeeHistory,omitempty"`
}

// SocialMediaData is the canonical per-platform snapshot served to clients
// and stored in the cache.
//
// Source is "api" when freshly normalized, "cache" when served from a live
// or stale cache entry, and "error" on a degraded soft-failure payload.
// LastUpdated is an RFC3339 timestamp; ExpiresAt is epoch milliseconds.
type SocialMediaData struct {
	Success     bool            `json:"success"`
	Error       string          `json:"error,omitempty"`
	Platform    Platform        `json:"platform"`
	Identifier  string          `json:"identifier"`
	CompanyName string          `json:"companyName"`
	Profile     Profile         `json:"profile"`
	Followers   FollowerStats   `json:"followerStats"`
	Content     ContentAnalysis `json:"contentAnalysis"`
	Posts       []Post          `json:"posts"`
	Onchain     *OnchainMetrics `json:"onchain,omitempty"`
	Summary     string          `json:"summary,omitempty"`
	Source      string          `json:"_source"`
	LastUpdated string          `json:"_lastUpdated"`
	ExpiresAt   int64           `json:"expiresAt"`
}

// CacheEntry is the stored per-key cache row.
// Invariant: ExpiresAt > LastUpdated (both epoch milliseconds).
// Exactly one live entry exists per key; writes upsert, never duplicate.
type CacheEntry struct {
	Key         string          `json:"key"`
	Data        SocialMediaData `json:"data"`
	LastUpdated int64           `json:"lastUpdated"`
	ExpiresAt   int64           `json:"expiresAt"`
}

// Live reports whether the entry is still fresh at the given time.
func (e *CacheEntry) Live(now time.Time) bool {
	return e.ExpiresAt > now.UnixMilli()
}

// HistoryPoint is one follower-count observation.
// Timestamp is epoch milliseconds.
type HistoryPoint struct {
	Timestamp int64 `json:"timestamp"`
	Count     int64 `json:"count"`
}

// FeePoint is one daily-fees observation for an on-chain protocol.
// Date is an ISO date string as reported upstream.
type FeePoint struct {
	Date string  `json:"date"`
	Fees float64 `json:"fees"`
}

// CompanyRecord registers a company and its per-platform identifiers.
// The background sweep enumerates these records to refresh on-chain data.
type CompanyRecord struct {
	Name        string              `json:"name"`
	Identifiers map[Platform]string `json:"identifiers"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}
