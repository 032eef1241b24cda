// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package summary generates short natural-language digests of recent post
// activity through an LLM. Summarization is strictly best effort: any
// failure (missing key, upstream error, timeout) degrades to an empty
// string and never fails the enclosing fetch.
package summary

import (
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/logging"
	"github.com/jpcarmona/socialpulse/internal/metrics"
)

const systemPrompt = "You summarize a company's recent social media posts. " +
	"Write one short paragraph (2-3 sentences) capturing the main themes. " +
	"Plain text only, no lists."

// Generator summarizes post texts through the configured chat model.
// A Generator built without an API key is permanently disabled and
// returns empty summaries.
type Generator struct {
	client    *openai.Client
	model     string
	maxPosts  int
	maxTokens int
	timeout   time.Duration
}

// New creates a Generator from config. With no API key configured the
// generator is disabled, not nil, so call sites need no guard.
func New(cfg config.SummaryConfig) *Generator {
	g := &Generator{
		model:     cfg.Model,
		maxPosts:  cfg.MaxPosts,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
	if cfg.Enabled() {
		g.client = openai.NewClient(cfg.APIKey)
	}
	return g
}

// Enabled reports whether the generator has a usable upstream.
func (g *Generator) Enabled() bool { return g.client != nil }

// Summarize produces a digest of the given post texts. Returns an empty
// string when disabled, when there is nothing to summarize, or on any
// upstream failure.
func (g *Generator) Summarize(ctx context.Context, texts []string) string {
	if g.client == nil || len(texts) == 0 {
		metrics.SummaryRequests.WithLabelValues("skipped").Inc()
		return ""
	}

	if g.maxPosts > 0 && len(texts) > g.maxPosts {
		texts = texts[:g.maxPosts]
	}

	timeout := g.timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(texts)},
		},
	})
	if err != nil {
		metrics.SummaryRequests.WithLabelValues("failure").Inc()
		logging.Warn().Err(err).Msg("Summarization failed, continuing without summary")
		return ""
	}
	if len(resp.Choices) == 0 {
		metrics.SummaryRequests.WithLabelValues("failure").Inc()
		return ""
	}

	metrics.SummaryRequests.WithLabelValues("success").Inc()
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// buildPrompt joins post texts into a numbered block for the model.
func buildPrompt(texts []string) string {
	var b strings.Builder
	b.WriteString("Recent posts:\n")
	for i, text := range texts {
		b.WriteString(strings.TrimSpace(text))
		if i < len(texts)-1 {
			b.WriteString("\n---\n")
		}
	}
	return b.String()
}
