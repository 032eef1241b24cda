// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/logging"
	"github.com/jpcarmona/socialpulse/internal/metrics"
)

// Client is a shared JSON-over-HTTPS client for upstream platform APIs.
//
// Every upstream call goes through three layers of protection:
//   - a token-bucket limiter smoothing the request rate per upstream
//   - a circuit breaker that opens after sustained failures
//   - retry with exponential backoff on HTTP 429 (honoring Retry-After)
//
// Thread safety: safe for concurrent use. Each request creates its own
// HTTP request.
type Client struct {
	name           string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	cb             *gobreaker.CircuitBreaker[[]byte]
	maxRetries     int
	retryBaseDelay time.Duration
}

// upstreamRateLimit smooths outbound calls. Upstream quotas are far above
// this; the limiter only protects against tight refresh loops.
const upstreamRateLimit = rate.Limit(5)

// NewClient creates an upstream client named for its data source. The name
// labels circuit breaker metrics and log lines.
func NewClient(name string, cfg config.UpstreamConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		// Opens when failure rate >= 60% with minimum 10 requests.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().Str("upstream", name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("upstream", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Client{
		name:   name,
		apiKey: cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:        rate.NewLimiter(upstreamRateLimit, 10),
		cb:             cb,
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
	}
}

// GetJSON performs a GET against reqURL and decodes the JSON body into out.
// The request carries the configured API key as a bearer token when set.
func (c *Client) GetJSON(ctx context.Context, reqURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.doRequestWithRateLimit(ctx, reqURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
			logging.Warn().Str("upstream", c.name).Err(err).Msg("Circuit breaker rejected request")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
		}
		return err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}

// doRequestWithRateLimit performs an HTTP GET with automatic rate limit
// handling. Implements exponential backoff for HTTP 429 responses
// (1s, 2s, 4s, 8s, 16s), honoring Retry-After when present. The context
// is used for cancellation during backoff waits.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request failed: %w", c.name, err)
		}

		if resp.StatusCode == http.StatusOK {
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read %s response: %w", c.name, err)
			}
			return body, nil
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%s returned HTTP %d", c.name, resp.StatusCode)
		}

		// Rate limited (HTTP 429): close body and retry with backoff.
		retryAfter := resp.Header.Get("Retry-After")
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("%s rate limit exceeded after %d retries (HTTP 429)", c.name, c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	}
	return "unknown"
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return -1
}
