// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package platform

import (
	"fmt"
	"testing"
	"time"

	"github.com/jpcarmona/socialpulse/internal/models"
)

func testTelegramRaw(now time.Time) telegramChannelResponse {
	var raw telegramChannelResponse
	raw.Title = "Acme Announcements"
	raw.Description = "Official Acme channel"
	raw.MembersCount = 2000
	raw.Messages = []struct {
		ID       int64     `json:"id"`
		Text     string    `json:"text"`
		Date     time.Time `json:"date"`
		Views    int64     `json:"views"`
		Replies  int64     `json:"replies"`
		Forwards int64     `json:"forwards"`
	}{
		{ID: 10, Text: "release notes", Date: now.Add(-3 * time.Hour), Views: 300, Replies: 20, Forwards: 80},
		{ID: 9, Text: "last week", Date: now.Add(-72 * time.Hour), Views: 100, Replies: 10, Forwards: 10},
	}
	return raw
}

func TestNormalizeTelegram(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	raw := testTelegramRaw(now)

	data := normalizeTelegram(raw, "acme_channel", "Acme", now, models.ChangeStat{Count: 25, Percentage: 1.27}, models.ChangeStat{})

	if !data.Success {
		t.Fatal("expected success")
	}
	if data.Platform != models.PlatformTelegram {
		t.Errorf("platform = %q, want telegram", data.Platform)
	}
	if data.Profile.Followers != 2000 {
		t.Errorf("members = %d, want 2000", data.Profile.Followers)
	}
	if data.Followers.OneDayChange.Count != 25 {
		t.Errorf("oneDayChange.count = %v, want 25", data.Followers.OneDayChange.Count)
	}

	// Views, replies, and forwards land in the canonical slots.
	if data.Posts[0].ID != "10" {
		t.Errorf("expected newest message first, got %q", data.Posts[0].ID)
	}
	if data.Posts[0].Likes != 300 || data.Posts[0].Comments != 20 || data.Posts[0].Shares != 80 {
		t.Errorf("message metrics = %d/%d/%d, want 300/20/80",
			data.Posts[0].Likes, data.Posts[0].Comments, data.Posts[0].Shares)
	}

	// 520 total engagements / (2000 members x 2 posts) x 100 = 13%
	if data.Content.EngagementRate != 13 {
		t.Errorf("engagementRate = %v, want 13", data.Content.EngagementRate)
	}

	// Only the 3h-old message lands in the 24h window.
	if got := data.Content.Metrics["views24h"]; got != 300 {
		t.Errorf("views24h = %v, want 300", got)
	}
	if got := data.Content.Metrics["forwards24h"]; got != 80 {
		t.Errorf("forwards24h = %v, want 80", got)
	}
	if got := data.Content.Metrics["posts7d"]; got != 2 {
		t.Errorf("posts7d = %v, want 2", got)
	}
}

func TestNormalizeTelegramCapsMessages(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	raw := testTelegramRaw(now)
	raw.Messages = nil
	for i := 0; i < telegramMaxPosts+5; i++ {
		raw.Messages = append(raw.Messages, struct {
			ID       int64     `json:"id"`
			Text     string    `json:"text"`
			Date     time.Time `json:"date"`
			Views    int64     `json:"views"`
			Replies  int64     `json:"replies"`
			Forwards int64     `json:"forwards"`
		}{ID: int64(i), Text: fmt.Sprintf("msg %d", i), Date: now.Add(-time.Duration(i) * time.Hour)})
	}

	data := normalizeTelegram(raw, "acme_channel", "Acme", now, models.ChangeStat{}, models.ChangeStat{})
	if len(data.Posts) != telegramMaxPosts {
		t.Errorf("expected messages capped at %d, got %d", telegramMaxPosts, len(data.Posts))
	}
	if data.Posts[0].ID != "0" {
		t.Errorf("expected newest message first after cap, got %q", data.Posts[0].ID)
	}
}

func TestNormalizeTelegramZeroMembers(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	raw := testTelegramRaw(now)
	raw.MembersCount = 0

	data := normalizeTelegram(raw, "acme_channel", "Acme", now, models.ChangeStat{}, models.ChangeStat{})
	if data.Content.EngagementRate != 0 {
		t.Errorf("engagementRate with 0 members = %v, want 0", data.Content.EngagementRate)
	}
}
