// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package platform

import (
	"context"
	"time"

	"github.com/jpcarmona/socialpulse/internal/models"
)

// Medium is a declared placeholder: no live upstream integration exists,
// so it returns a fixed deterministic payload. The payload is cached and
// served with the same TTL policy as the live platforms.
//
// TODO: wire a real upstream once a publication stats source is chosen.
type Medium struct{}

// NewMedium creates the Medium placeholder normalizer.
func NewMedium() *Medium { return &Medium{} }

// Platform implements Normalizer.
func (m *Medium) Platform() models.Platform { return models.PlatformMedium }

// mediumPlaceholderDate anchors the synthetic post so the payload is
// byte-identical across fetches.
var mediumPlaceholderDate = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Fetch returns the placeholder snapshot. It never fails.
func (m *Medium) Fetch(_ context.Context, identifier, companyName string) (*models.SocialMediaData, error) {
	return &models.SocialMediaData{
		Success:     true,
		Platform:    models.PlatformMedium,
		Identifier:  identifier,
		CompanyName: companyName,
		Profile: models.Profile{
			Name:      companyName,
			Bio:       "Medium publication (placeholder data)",
			Followers: 1200,
			PostCount: 1,
		},
		Followers: models.FollowerStats{
			Current:        1200,
			TotalFollowers: 1200,
		},
		Content: models.ContentAnalysis{},
		Posts: []models.Post{
			{
				ID:    "placeholder-1",
				Text:  "Placeholder article while Medium integration is pending.",
				Date:  mediumPlaceholderDate,
				Likes: 48,
			},
		},
	}, nil
}
