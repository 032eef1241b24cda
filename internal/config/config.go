// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package config provides layered application configuration via Koanf v2.
//
// Configuration sources, highest priority last:
//  1. Built-in defaults
//  2. Config file (config.yaml)
//  3. Environment variables
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Cache    CacheConfig    `koanf:"cache"`
	Twitter  UpstreamConfig `koanf:"twitter"`
	LinkedIn UpstreamConfig `koanf:"linkedin"`
	Telegram UpstreamConfig `koanf:"telegram"`
	Onchain  UpstreamConfig `koanf:"onchain"`
	Summary  SummaryConfig  `koanf:"summary"`
	Sweep    SweepConfig    `koanf:"sweep"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment" validate:"oneof=development production"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig holds document store (BadgerDB) settings.
type StoreConfig struct {
	// Path is the on-disk directory for the store. Ignored when InMemory.
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// CacheConfig holds cache TTL policy.
type CacheConfig struct {
	// SocialTTL applies to Twitter, LinkedIn, Telegram, and Medium entries.
	SocialTTL time.Duration `koanf:"social_ttl"`
	// OnchainTTL applies to on-chain fee entries.
	OnchainTTL time.Duration `koanf:"onchain_ttl"`
}

// UpstreamConfig holds settings for one third-party data source.
// BaseURL and APIKey are treated as opaque; the payloads are JSON over HTTPS.
type UpstreamConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// SummaryConfig holds LLM summarization settings.
// Summarization is optional; with no API key the generator is disabled and
// summaries are empty strings.
type SummaryConfig struct {
	APIKey    string        `koanf:"api_key"`
	Model     string        `koanf:"model"`
	MaxPosts  int           `koanf:"max_posts"`
	Timeout   time.Duration `koanf:"timeout"`
	MaxTokens int           `koanf:"max_tokens"`
}

// Enabled reports whether summarization is configured.
func (s SummaryConfig) Enabled() bool { return s.APIKey != "" }

// SweepConfig holds background on-chain refresh settings.
type SweepConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks cross-field constraints that tags cannot express.
func (c *Config) Validate() error {
	if c.Cache.SocialTTL <= 0 || c.Cache.OnchainTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive (social=%s onchain=%s)",
			c.Cache.SocialTTL, c.Cache.OnchainTTL)
	}
	if c.Sweep.Enabled && c.Sweep.Interval <= 0 {
		return fmt.Errorf("sweep interval must be positive when the sweep is enabled")
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store path is required unless store.in_memory is set")
	}
	return nil
}
