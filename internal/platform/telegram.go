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

	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/logging"
	"github.com/jpcarmona/socialpulse/internal/metrics"
	"github.com/jpcarmona/socialpulse/internal/models"
)

// telegramMaxPosts caps the recent-messages window pulled per fetch.
const telegramMaxPosts = 20

// telegramChannelResponse is the upstream channel payload. Views, replies,
// and forwards map to the canonical likes/comments/shares slots.
type telegramChannelResponse struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	MembersCount int64  `json:"members_count"`
	Messages     []struct {
		ID       int64     `json:"id"`
		Text     string    `json:"text"`
		Date     time.Time `json:"date"`
		Views    int64     `json:"views"`
		Replies  int64     `json:"replies"`
		Forwards int64     `json:"forwards"`
	} `json:"messages"`
}

// Telegram normalizes public channel data.
type Telegram struct {
	client     *Client
	baseURL    string
	hist       FollowerHistory
	summarizer Summarizer
	now        func() time.Time
}

// NewTelegram creates the Telegram normalizer.
func NewTelegram(cfg config.UpstreamConfig, hist FollowerHistory, summarizer Summarizer) *Telegram {
	return &Telegram{
		client:     NewClient("telegram", cfg),
		baseURL:    cfg.BaseURL,
		hist:       hist,
		summarizer: summarizer,
		now:        time.Now,
	}
}

// Platform implements Normalizer.
func (t *Telegram) Platform() models.Platform { return models.PlatformTelegram }

// Fetch pulls the channel info and recent messages, records the member
// observation, and builds the canonical snapshot.
func (t *Telegram) Fetch(ctx context.Context, identifier, companyName string) (*models.SocialMediaData, error) {
	started := t.now()
	var raw telegramChannelResponse
	reqURL := fmt.Sprintf("%s/channel/%s?limit=%d", t.baseURL, url.PathEscape(identifier), telegramMaxPosts)
	err := t.client.GetJSON(ctx, reqURL, &raw)
	metrics.RecordUpstreamFetch("telegram", time.Since(started), err)
	if err != nil {
		return nil, fmt.Errorf("fetch telegram channel %s: %w", identifier, err)
	}

	now := t.now()
	seriesKey := string(models.PlatformTelegram) + ":" + identifier

	if err := t.hist.Record(seriesKey, raw.MembersCount, now); err != nil {
		logging.Warn().Err(err).Str("series", seriesKey).Msg("Failed to record member history")
	}
	oneDay, oneWeek, err := t.hist.Changes(seriesKey, raw.MembersCount, now)
	if err != nil {
		logging.Warn().Err(err).Str("series", seriesKey).Msg("Failed to compute member deltas")
		oneDay, oneWeek = models.ChangeStat{}, models.ChangeStat{}
	}

	data := normalizeTelegram(raw, identifier, companyName, now, oneDay, oneWeek)

	if t.summarizer != nil {
		data.Summary = t.summarizer.Summarize(ctx, postTexts(data.Posts, telegramMaxPosts))
	}
	return data, nil
}

// normalizeTelegram reshapes the channel payload into the canonical
// snapshot. Pure: identical inputs produce identical output.
func normalizeTelegram(raw telegramChannelResponse, identifier, companyName string, now time.Time, oneDay, oneWeek models.ChangeStat) *models.SocialMediaData {
	posts := make([]models.Post, 0, len(raw.Messages))
	for _, m := range raw.Messages {
		posts = append(posts, models.Post{
			ID:       fmt.Sprintf("%d", m.ID),
			Text:     m.Text,
			Date:     m.Date,
			Likes:    m.Views,
			Comments: m.Replies,
			Shares:   m.Forwards,
		})
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
	if len(posts) > telegramMaxPosts {
		posts = posts[:telegramMaxPosts]
	}

	var totalEngagements int64
	for _, p := range posts {
		totalEngagements += p.Likes + p.Comments + p.Shares
	}

	views24h, replies24h, forwards24h, _ := windowSums(posts, now.Add(-24*time.Hour))
	_, _, _, posts7d := windowSums(posts, now.Add(-7*24*time.Hour))

	return &models.SocialMediaData{
		Success:     true,
		Platform:    models.PlatformTelegram,
		Identifier:  identifier,
		CompanyName: companyName,
		Profile: models.Profile{
			Name:      raw.Title,
			Bio:       raw.Description,
			Followers: raw.MembersCount,
			PostCount: int64(len(posts)),
		},
		Followers: models.FollowerStats{
			Current:        raw.MembersCount,
			TotalFollowers: raw.MembersCount,
			OneDayChange:   oneDay,
			OneWeekChange:  oneWeek,
		},
		Content: models.ContentAnalysis{
			EngagementRate: round2(EngagementRate(totalEngagements, raw.MembersCount, int64(len(posts)))),
			Metrics: map[string]float64{
				"views24h":    float64(views24h),
				"replies24h":  float64(replies24h),
				"forwards24h": float64(forwards24h),
				"posts7d":     float64(posts7d),
			},
		},
		Posts: posts,
	}
}
