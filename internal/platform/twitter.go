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

// twitterMaxPosts caps the timeline window pulled per fetch.
const twitterMaxPosts = 40

// twitterSummaryPosts caps how many post texts feed the summarizer.
const twitterSummaryPosts = 20

// twitterUserResponse is the upstream profile payload.
type twitterUserResponse struct {
	Data struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Username      string `json:"username"`
		Description   string `json:"description"`
		PublicMetrics struct {
			FollowersCount int64 `json:"followers_count"`
			TweetCount     int64 `json:"tweet_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

// twitterTimelineResponse is the upstream recent-posts payload.
type twitterTimelineResponse struct {
	Data []struct {
		ID            string    `json:"id"`
		Text          string    `json:"text"`
		CreatedAt     time.Time `json:"created_at"`
		PublicMetrics struct {
			LikeCount    int64 `json:"like_count"`
			ReplyCount   int64 `json:"reply_count"`
			RetweetCount int64 `json:"retweet_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

// twitterRaw bundles both upstream payloads for normalization.
type twitterRaw struct {
	user  twitterUserResponse
	posts []models.Post
}

// Twitter normalizes Twitter profiles and timelines.
type Twitter struct {
	client     *Client
	baseURL    string
	hist       FollowerHistory
	summarizer Summarizer
	now        func() time.Time
}

// NewTwitter creates the Twitter normalizer.
func NewTwitter(cfg config.UpstreamConfig, hist FollowerHistory, summarizer Summarizer) *Twitter {
	return &Twitter{
		client:     NewClient("twitter", cfg),
		baseURL:    cfg.BaseURL,
		hist:       hist,
		summarizer: summarizer,
		now:        time.Now,
	}
}

// Platform implements Normalizer.
func (t *Twitter) Platform() models.Platform { return models.PlatformTwitter }

// Fetch pulls the profile and up to 40 recent posts, records the follower
// observation, and builds the canonical snapshot.
func (t *Twitter) Fetch(ctx context.Context, identifier, companyName string) (*models.SocialMediaData, error) {
	started := t.now()
	raw, err := t.fetchRaw(ctx, identifier)
	metrics.RecordUpstreamFetch("twitter", time.Since(started), err)
	if err != nil {
		return nil, err
	}

	now := t.now()
	current := raw.user.Data.PublicMetrics.FollowersCount
	seriesKey := string(models.PlatformTwitter) + ":" + identifier

	if err := t.hist.Record(seriesKey, current, now); err != nil {
		logging.Warn().Err(err).Str("series", seriesKey).Msg("Failed to record follower history")
	}
	oneDay, oneWeek, err := t.hist.Changes(seriesKey, current, now)
	if err != nil {
		logging.Warn().Err(err).Str("series", seriesKey).Msg("Failed to compute follower deltas")
		oneDay, oneWeek = models.ChangeStat{}, models.ChangeStat{}
	}

	summary := ""
	if t.summarizer != nil {
		summary = t.summarizer.Summarize(ctx, postTexts(raw.posts, twitterSummaryPosts))
	}

	data := normalizeTwitter(raw, identifier, companyName, now, oneDay, oneWeek)
	data.Summary = summary
	return data, nil
}

// fetchRaw performs the two upstream calls: profile, then timeline.
func (t *Twitter) fetchRaw(ctx context.Context, identifier string) (twitterRaw, error) {
	var raw twitterRaw

	userURL := fmt.Sprintf("%s/2/users/by/username/%s?user.fields=description,public_metrics",
		t.baseURL, url.PathEscape(identifier))
	if err := t.client.GetJSON(ctx, userURL, &raw.user); err != nil {
		return raw, fmt.Errorf("fetch twitter profile %s: %w", identifier, err)
	}
	if raw.user.Data.ID == "" {
		return raw, fmt.Errorf("twitter user %q not found", identifier)
	}

	timelineURL := fmt.Sprintf("%s/2/users/%s/tweets?max_results=%d&tweet.fields=created_at,public_metrics",
		t.baseURL, url.PathEscape(raw.user.Data.ID), twitterMaxPosts)
	var timeline twitterTimelineResponse
	if err := t.client.GetJSON(ctx, timelineURL, &timeline); err != nil {
		return raw, fmt.Errorf("fetch twitter timeline %s: %w", identifier, err)
	}

	raw.posts = make([]models.Post, 0, len(timeline.Data))
	for _, tw := range timeline.Data {
		raw.posts = append(raw.posts, models.Post{
			ID:       tw.ID,
			Text:     tw.Text,
			Date:     tw.CreatedAt,
			Likes:    tw.PublicMetrics.LikeCount,
			Comments: tw.PublicMetrics.ReplyCount,
			Shares:   tw.PublicMetrics.RetweetCount,
		})
	}
	return raw, nil
}

// normalizeTwitter reshapes the raw payloads into the canonical snapshot.
// Pure: identical inputs produce identical output.
func normalizeTwitter(raw twitterRaw, identifier, companyName string, now time.Time, oneDay, oneWeek models.ChangeStat) *models.SocialMediaData {
	user := raw.user.Data
	followers := user.PublicMetrics.FollowersCount

	posts := make([]models.Post, len(raw.posts))
	copy(posts, raw.posts)
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
	if len(posts) > twitterMaxPosts {
		posts = posts[:twitterMaxPosts]
	}

	var totalEngagements int64
	for _, p := range posts {
		totalEngagements += p.Likes + p.Comments + p.Shares
	}

	likes24h, replies24h, reshares24h, _ := windowSums(posts, now.Add(-24*time.Hour))
	_, replies7d, _, posts7d := windowSums(posts, now.Add(-7*24*time.Hour))

	return &models.SocialMediaData{
		Success:     true,
		Platform:    models.PlatformTwitter,
		Identifier:  identifier,
		CompanyName: companyName,
		Profile: models.Profile{
			Name:      user.Name,
			Bio:       user.Description,
			Followers: followers,
			PostCount: user.PublicMetrics.TweetCount,
		},
		Followers: models.FollowerStats{
			Current:        followers,
			TotalFollowers: followers,
			OneDayChange:   oneDay,
			OneWeekChange:  oneWeek,
		},
		Content: models.ContentAnalysis{
			EngagementRate: round2(EngagementRate(totalEngagements, followers, int64(len(posts)))),
			Metrics: map[string]float64{
				"likes24h":          float64(likes24h),
				"replies24h":        float64(replies24h),
				"reshares24h":       float64(reshares24h),
				"posts7d":           float64(posts7d),
				"replies7d":         float64(replies7d),
				"avgPostEngagement": round2(perPostEngagement(posts, followers)),
			},
		},
		Posts: posts,
	}
}
