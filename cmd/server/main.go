// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package main is the entry point for the SocialPulse server.
//
// SocialPulse aggregates social media and on-chain metrics for
// registered companies. Per-platform normalizers reshape upstream
// payloads into one snapshot format, a BadgerDB-backed cache serves
// them within per-category freshness windows, and a background sweep
// keeps on-chain entries warm.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 with defaults, config.yaml, and env vars
//  2. Store: BadgerDB document store for cache entries, history, companies
//  3. Normalizers: Twitter, LinkedIn, Telegram, Medium, Onchain
//  4. Orchestrator: cache reads, upstream fetches, stale fallbacks
//  5. Sweep: periodic on-chain refresh (optional)
//  6. HTTP server: Chi REST API with Prometheus metrics
//
// Graceful shutdown on SIGINT and SIGTERM: the supervisor tree stops
// the sweep and drains in-flight HTTP requests before the store closes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jpcarmona/socialpulse/internal/api"
	"github.com/jpcarmona/socialpulse/internal/cache"
	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/history"
	"github.com/jpcarmona/socialpulse/internal/logging"
	"github.com/jpcarmona/socialpulse/internal/platform"
	"github.com/jpcarmona/socialpulse/internal/store"
	"github.com/jpcarmona/socialpulse/internal/summary"
	"github.com/jpcarmona/socialpulse/internal/supervisor"
	"github.com/jpcarmona/socialpulse/internal/sweep"
)

func main() {
	// Optional .env for local development. Real deployments set env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("store_path", cfg.Store.Path).
		Bool("sweep_enabled", cfg.Sweep.Enabled).
		Msg("Starting SocialPulse")

	db, err := store.Open(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	tracker := history.NewTracker(db)
	summarizer := summary.New(cfg.Summary)
	if summarizer.Enabled() {
		logging.Info().Str("model", cfg.Summary.Model).Msg("LLM summarization enabled")
	} else {
		logging.Info().Msg("LLM summarization disabled (no API key)")
	}

	registry := platform.NewRegistry(
		platform.NewTwitter(cfg.Twitter, tracker, summarizer),
		platform.NewLinkedIn(cfg.LinkedIn, tracker, summarizer),
		platform.NewTelegram(cfg.Telegram, tracker, summarizer),
		platform.NewMedium(),
		platform.NewOnchain(cfg.Onchain),
	)

	orchestrator := cache.New(db, registry, cfg.Cache)

	var sweepManager *sweep.Manager
	var sweepStatus api.SweepStatusProvider
	if cfg.Sweep.Enabled {
		sweepManager = sweep.NewManager(db, orchestrator, cfg.Sweep)
		sweepStatus = sweepManager
		logging.Info().Dur("interval", cfg.Sweep.Interval).Msg("Background sweep enabled")
	}

	handler := api.NewHandler(orchestrator, db, sweepStatus, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})

	if sweepManager != nil {
		tree.AddBackgroundService(sweep.NewService(sweepManager))
	}
	tree.AddAPIService(supervisor.NewHTTPService(server, server.Addr, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	logging.Info().Msg("SocialPulse stopped gracefully")
}
