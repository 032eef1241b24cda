// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package platform

import (
	"context"
	"reflect"
	"testing"
)

func TestMediumPlaceholderDeterministic(t *testing.T) {
	m := NewMedium()

	a, err := m.Fetch(context.Background(), "acme-blog", "Acme")
	if err != nil {
		t.Fatalf("placeholder fetch should never fail: %v", err)
	}
	b, err := m.Fetch(context.Background(), "acme-blog", "Acme")
	if err != nil {
		t.Fatalf("placeholder fetch should never fail: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("placeholder payload is not deterministic")
	}
	if !a.Success {
		t.Error("placeholder should report success")
	}
	if a.Followers.Current == 0 {
		t.Error("placeholder should carry a fixed follower count")
	}
	if len(a.Posts) != 1 {
		t.Errorf("placeholder should carry one synthetic post, got %d", len(a.Posts))
	}
}
