// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package platform

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/logging"
	"github.com/jpcarmona/socialpulse/internal/metrics"
	"github.com/jpcarmona/socialpulse/internal/models"
)

// linkedinMaxPosts caps the recent-posts window pulled per fetch.
const linkedinMaxPosts = 20

// linkedinCompanyResponse is the upstream company payload. The three
// employee-distribution fields arrive in one of two shapes (see
// migrateDistribution); funding is optional.
type linkedinCompanyResponse struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Industry      string `json:"industry"`
	Website       string `json:"website"`
	FollowerCount int64  `json:"followerCount"`
	StaffCount    int64  `json:"staffCount"`

	DistributionByFunction json.RawMessage `json:"employeeDistributionByFunction"`
	DistributionBySkill    json.RawMessage `json:"employeeDistributionBySkill"`
	DistributionByLocation json.RawMessage `json:"employeeDistributionByLocation"`

	Funding *struct {
		TotalRounds   int64   `json:"totalRounds"`
		LastRoundType string  `json:"lastRoundType"`
		LastRoundDate string  `json:"lastRoundDate"`
		AmountRaised  float64 `json:"amountRaised"`
	} `json:"funding"`

	Posts []struct {
		ID       string    `json:"id"`
		Text     string    `json:"text"`
		Date     time.Time `json:"date"`
		Likes    int64     `json:"likes"`
		Comments int64     `json:"comments"`
		Reshares int64     `json:"reshares"`
	} `json:"posts"`
}

// LinkedIn normalizes company pages: profile, employee distributions,
// funding, and recent posts.
type LinkedIn struct {
	client     *Client
	baseURL    string
	hist       FollowerHistory
	summarizer Summarizer
	now        func() time.Time
}

// NewLinkedIn creates the LinkedIn normalizer.
func NewLinkedIn(cfg config.UpstreamConfig, hist FollowerHistory, summarizer Summarizer) *LinkedIn {
	return &LinkedIn{
		client:     NewClient("linkedin", cfg),
		baseURL:    cfg.BaseURL,
		hist:       hist,
		summarizer: summarizer,
		now:        time.Now,
	}
}

// Platform implements Normalizer.
func (l *LinkedIn) Platform() models.Platform { return models.PlatformLinkedIn }

// Fetch pulls the company page, records the follower observation, and
// builds the canonical snapshot.
func (l *LinkedIn) Fetch(ctx context.Context, identifier, companyName string) (*models.SocialMediaData, error) {
	started := l.now()
	var raw linkedinCompanyResponse
	reqURL := fmt.Sprintf("%s/company/%s", l.baseURL, url.PathEscape(identifier))
	err := l.client.GetJSON(ctx, reqURL, &raw)
	metrics.RecordUpstreamFetch("linkedin", time.Since(started), err)
	if err != nil {
		return nil, fmt.Errorf("fetch linkedin company %s: %w", identifier, err)
	}

	now := l.now()
	seriesKey := string(models.PlatformLinkedIn) + ":" + identifier

	if err := l.hist.Record(seriesKey, raw.FollowerCount, now); err != nil {
		logging.Warn().Err(err).Str("series", seriesKey).Msg("Failed to record follower history")
	}
	oneDay, oneWeek, err := l.hist.Changes(seriesKey, raw.FollowerCount, now)
	if err != nil {
		logging.Warn().Err(err).Str("series", seriesKey).Msg("Failed to compute follower deltas")
		oneDay, oneWeek = models.ChangeStat{}, models.ChangeStat{}
	}

	data := normalizeLinkedIn(raw, identifier, companyName, oneDay, oneWeek)

	if l.summarizer != nil {
		data.Summary = l.summarizer.Summarize(ctx, postTexts(data.Posts, linkedinMaxPosts))
	}
	return data, nil
}

// normalizeLinkedIn reshapes the company payload into the canonical
// snapshot. Pure: identical inputs produce identical output.
func normalizeLinkedIn(raw linkedinCompanyResponse, identifier, companyName string, oneDay, oneWeek models.ChangeStat) *models.SocialMediaData {
	posts := make([]models.Post, 0, len(raw.Posts))
	for _, p := range raw.Posts {
		posts = append(posts, models.Post{
			ID:       p.ID,
			Text:     p.Text,
			Date:     p.Date,
			Likes:    p.Likes,
			Comments: p.Comments,
			Shares:   p.Reshares,
		})
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
	if len(posts) > linkedinMaxPosts {
		posts = posts[:linkedinMaxPosts]
	}

	var totalEngagements int64
	for _, p := range posts {
		totalEngagements += p.Likes + p.Comments + p.Shares
	}

	extra := map[string]any{}
	if raw.Industry != "" {
		extra["industry"] = raw.Industry
	}
	if raw.Website != "" {
		extra["website"] = raw.Website
	}
	if raw.StaffCount > 0 {
		extra["staffCount"] = raw.StaffCount
	}
	if dist := migrateDistribution(raw.DistributionByFunction); len(dist) > 0 {
		extra["employeesByFunction"] = dist
	}
	if dist := migrateDistribution(raw.DistributionBySkill); len(dist) > 0 {
		extra["employeesBySkill"] = dist
	}
	if dist := migrateDistribution(raw.DistributionByLocation); len(dist) > 0 {
		extra["employeesByLocation"] = dist
	}
	if raw.Funding != nil {
		extra["funding"] = map[string]any{
			"totalRounds":   raw.Funding.TotalRounds,
			"lastRoundType": raw.Funding.LastRoundType,
			"lastRoundDate": raw.Funding.LastRoundDate,
			"amountRaised":  raw.Funding.AmountRaised,
		}
	}
	if len(extra) == 0 {
		extra = nil
	}

	return &models.SocialMediaData{
		Success:     true,
		Platform:    models.PlatformLinkedIn,
		Identifier:  identifier,
		CompanyName: companyName,
		Profile: models.Profile{
			Name:      raw.Name,
			Bio:       raw.Description,
			Followers: raw.FollowerCount,
			PostCount: int64(len(posts)),
			Extra:     extra,
		},
		Followers: models.FollowerStats{
			Current:        raw.FollowerCount,
			TotalFollowers: raw.FollowerCount,
			OneDayChange:   oneDay,
			OneWeekChange:  oneWeek,
		},
		Content: models.ContentAnalysis{
			EngagementRate: round2(EngagementRate(totalEngagements, raw.FollowerCount, int64(len(posts)))),
			Metrics: map[string]float64{
				"avgPostEngagement": round2(perPostEngagement(posts, raw.FollowerCount)),
			},
		},
		Posts: posts,
	}
}

// migrateDistribution decodes an employee-distribution field that arrives
// in one of two shapes: the current list form [{"name": ..., "count": ...}]
// or the legacy map form {"label": count}. Legacy maps are upgraded at
// read time and sorted by name so the output is deterministic.
func migrateDistribution(raw json.RawMessage) []models.NameCount {
	if len(raw) == 0 {
		return nil
	}

	var list []models.NameCount
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var legacy map[string]int64
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil
	}
	list = make([]models.NameCount, 0, len(legacy))
	for name, count := range legacy {
		list = append(list, models.NameCount{Name: name, Count: count})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
