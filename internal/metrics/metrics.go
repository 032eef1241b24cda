// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package metrics provides Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Cache efficiency (hits, misses, stale serves)
// - Upstream fetch performance per platform
// - Background sweep outcomes
// - Circuit breaker state
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialpulse_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_cache_hits_total",
			Help: "Total number of cache hits served live",
		},
		[]string{"platform"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_cache_misses_total",
			Help: "Total number of cache misses requiring an upstream fetch",
		},
		[]string{"platform"},
	)

	CacheStaleServes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_cache_stale_serves_total",
			Help: "Total number of expired entries served because a refresh failed",
		},
		[]string{"platform"},
	)

	// Upstream Metrics
	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialpulse_upstream_fetch_duration_seconds",
			Help:    "Duration of upstream platform fetches in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"platform"},
	)

	UpstreamFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_upstream_fetch_errors_total",
			Help: "Total number of failed upstream platform fetches",
		},
		[]string{"platform"},
	)

	// Sweep Metrics
	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "socialpulse_sweep_duration_seconds",
			Help:    "Duration of background refresh sweeps in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	SweepItemsRefreshed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "socialpulse_sweep_items_refreshed_total",
			Help: "Total number of items refreshed by background sweeps",
		},
	)

	SweepItemsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "socialpulse_sweep_items_failed_total",
			Help: "Total number of items that failed during background sweeps",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "socialpulse_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"upstream"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"upstream", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breakers by outcome",
		},
		[]string{"upstream", "outcome"}, // "success", "failure", "rejected"
	)

	// Summary Generator Metrics
	SummaryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_summary_requests_total",
			Help: "Total number of summarization attempts by outcome",
		},
		[]string{"outcome"}, // "success", "failure", "skipped"
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordUpstreamFetch records the outcome of one upstream platform fetch.
func RecordUpstreamFetch(platform string, duration time.Duration, err error) {
	UpstreamFetchDuration.WithLabelValues(platform).Observe(duration.Seconds())
	if err != nil {
		UpstreamFetchErrors.WithLabelValues(platform).Inc()
	}
}

// RecordSweep records the outcome of one background refresh sweep.
func RecordSweep(duration time.Duration, refreshed, failed int) {
	SweepDuration.Observe(duration.Seconds())
	SweepItemsRefreshed.Add(float64(refreshed))
	SweepItemsFailed.Add(float64(failed))
}
