// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package summary

import (
	"context"
	"strings"
	"testing"

	"github.com/jpcarmona/socialpulse/internal/config"
)

func TestDisabledGeneratorReturnsEmpty(t *testing.T) {
	g := New(config.SummaryConfig{Model: "gpt-4o-mini"})

	if g.Enabled() {
		t.Error("generator without API key should be disabled")
	}
	if got := g.Summarize(context.Background(), []string{"a post"}); got != "" {
		t.Errorf("disabled generator should return empty summary, got %q", got)
	}
}

func TestEmptyInputReturnsEmpty(t *testing.T) {
	g := New(config.SummaryConfig{APIKey: "test-key", Model: "gpt-4o-mini"})

	if !g.Enabled() {
		t.Error("generator with API key should be enabled")
	}
	if got := g.Summarize(context.Background(), nil); got != "" {
		t.Errorf("nothing to summarize should return empty, got %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt([]string{"  first post  ", "second post"})

	if !strings.HasPrefix(prompt, "Recent posts:\n") {
		t.Errorf("unexpected prompt prefix: %q", prompt)
	}
	if !strings.Contains(prompt, "first post\n---\nsecond post") {
		t.Errorf("posts not joined as expected: %q", prompt)
	}
	if strings.HasSuffix(prompt, "---\n") {
		t.Errorf("trailing separator in prompt: %q", prompt)
	}
}
