// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package platform

import (
	"reflect"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/jpcarmona/socialpulse/internal/models"
)

func TestMigrateDistribution(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []models.NameCount
	}{
		{
			name: "current list form passes through",
			raw:  `[{"name":"Engineering","count":120},{"name":"Sales","count":30}]`,
			want: []models.NameCount{{Name: "Engineering", Count: 120}, {Name: "Sales", Count: 30}},
		},
		{
			name: "legacy map form upgrades sorted by name",
			raw:  `{"Sales":30,"Engineering":120,"Design":12}`,
			want: []models.NameCount{{Name: "Design", Count: 12}, {Name: "Engineering", Count: 120}, {Name: "Sales", Count: 30}},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "undecodable input",
			raw:  `"just a string"`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := migrateDistribution(json.RawMessage(tt.raw))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeLinkedIn(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	raw := linkedinCompanyResponse{
		Name:                   "Acme Corp",
		Description:            "We make everything",
		Industry:               "Manufacturing",
		FollowerCount:          10000,
		StaffCount:             250,
		DistributionByFunction: json.RawMessage(`{"Engineering":120,"Sales":30}`),
	}
	raw.Posts = []struct {
		ID       string    `json:"id"`
		Text     string    `json:"text"`
		Date     time.Time `json:"date"`
		Likes    int64     `json:"likes"`
		Comments int64     `json:"comments"`
		Reshares int64     `json:"reshares"`
	}{
		{ID: "p1", Text: "hiring", Date: now.Add(-time.Hour), Likes: 80, Comments: 15, Reshares: 5},
		{ID: "p2", Text: "launch", Date: now.Add(-50 * time.Hour), Likes: 300, Comments: 60, Reshares: 40},
	}

	data := normalizeLinkedIn(raw, "acme", "Acme", models.ChangeStat{Count: 12}, models.ChangeStat{})

	if data.Profile.Followers != 10000 {
		t.Errorf("followers = %d, want 10000", data.Profile.Followers)
	}
	if data.Posts[0].ID != "p1" {
		t.Errorf("expected newest post first, got %q", data.Posts[0].ID)
	}

	dist, ok := data.Profile.Extra["employeesByFunction"].([]models.NameCount)
	if !ok {
		t.Fatalf("expected migrated distribution in extra, got %T", data.Profile.Extra["employeesByFunction"])
	}
	if len(dist) != 2 || dist[0].Name != "Engineering" {
		t.Errorf("unexpected distribution: %v", dist)
	}

	// 500 total engagements / (10000 followers x 2 posts) x 100 = 2.5%
	if data.Content.EngagementRate != 2.5 {
		t.Errorf("engagementRate = %v, want 2.5", data.Content.EngagementRate)
	}
	if data.Followers.OneDayChange.Count != 12 {
		t.Errorf("oneDayChange = %v, want 12", data.Followers.OneDayChange.Count)
	}
}

func TestNormalizeLinkedInNoPosts(t *testing.T) {
	raw := linkedinCompanyResponse{Name: "Quiet Co", FollowerCount: 500}

	data := normalizeLinkedIn(raw, "quiet", "Quiet Co", models.ChangeStat{}, models.ChangeStat{})

	if data.Content.EngagementRate != 0 {
		t.Errorf("engagementRate with no posts = %v, want 0", data.Content.EngagementRate)
	}
	if len(data.Posts) != 0 {
		t.Errorf("expected no posts, got %d", len(data.Posts))
	}
}
