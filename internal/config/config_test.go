// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Cache.OnchainTTL != 6*time.Hour {
		t.Errorf("expected onchain TTL 6h, got %s", cfg.Cache.OnchainTTL)
	}
	if cfg.Cache.SocialTTL != 12*time.Hour {
		t.Errorf("expected social TTL 12h, got %s", cfg.Cache.SocialTTL)
	}
	if cfg.Sweep.Interval != 6*time.Hour {
		t.Errorf("expected sweep interval 6h, got %s", cfg.Sweep.Interval)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ONCHAIN_BASE_URL", "http://localhost:1234")
	t.Setenv("CACHE_ONCHAIN_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090 from env, got %d", cfg.Server.Port)
	}
	if cfg.Onchain.BaseURL != "http://localhost:1234" {
		t.Errorf("expected onchain base URL override, got %q", cfg.Onchain.BaseURL)
	}
	if cfg.Cache.OnchainTTL != time.Hour {
		t.Errorf("expected onchain TTL 1h from env, got %s", cfg.Cache.OnchainTTL)
	}
}

func TestLoadIgnoresUnrelatedEnv(t *testing.T) {
	t.Setenv("PATH_INFO", "should-not-leak")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store.Path == "should-not-leak" {
		t.Error("unmapped environment variable leaked into config")
	}
}

func TestValidateRejectsBadTTL(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.SocialTTL = 0

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero social TTL")
	}
}

func TestValidateRequiresStorePath(t *testing.T) {
	cfg := defaultConfig()
	cfg.Store.Path = ""
	cfg.Store.InMemory = false

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty store path")
	}

	cfg.Store.InMemory = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("in-memory store should not require a path: %v", err)
	}
}
