// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/socialpulse/config.yaml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. Defaults are
// loaded first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Store: StoreConfig{
			Path:     "/data/socialpulse",
			InMemory: false,
		},
		Cache: CacheConfig{
			SocialTTL:  12 * time.Hour,
			OnchainTTL: 6 * time.Hour,
		},
		Twitter: UpstreamConfig{
			BaseURL: "https://api.socialdata.tools",
			Timeout: 10 * time.Second,
		},
		LinkedIn: UpstreamConfig{
			BaseURL: "https://api.scrapin.io",
			Timeout: 10 * time.Second,
		},
		Telegram: UpstreamConfig{
			BaseURL: "https://api.tgstat.com",
			Timeout: 10 * time.Second,
		},
		Onchain: UpstreamConfig{
			// DefiLlama fees API; no key required.
			BaseURL: "https://api.llama.fi",
			Timeout: 10 * time.Second,
		},
		Summary: SummaryConfig{
			Model:     "gpt-4o-mini",
			MaxPosts:  20,
			Timeout:   20 * time.Second,
			MaxTokens: 300,
		},
		Sweep: SweepConfig{
			Enabled:  true,
			Interval: 6 * time.Hour,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML config
// file, and environment variables (highest priority).
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, honoring the
// CONFIG_PATH override.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment noise cannot
// leak into the configuration.
var envMappings = map[string]string{
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"store_path":      "store.path",
	"store_in_memory": "store.in_memory",

	"cache_social_ttl":  "cache.social_ttl",
	"cache_onchain_ttl": "cache.onchain_ttl",

	"twitter_base_url":  "twitter.base_url",
	"twitter_api_key":   "twitter.api_key",
	"twitter_timeout":   "twitter.timeout",
	"linkedin_base_url": "linkedin.base_url",
	"linkedin_api_key":  "linkedin.api_key",
	"linkedin_timeout":  "linkedin.timeout",
	"telegram_base_url": "telegram.base_url",
	"telegram_api_key":  "telegram.api_key",
	"telegram_timeout":  "telegram.timeout",
	"onchain_base_url":  "onchain.base_url",
	"onchain_api_key":   "onchain.api_key",
	"onchain_timeout":   "onchain.timeout",

	"openai_api_key":     "summary.api_key",
	"summary_model":      "summary.model",
	"summary_max_posts":  "summary.max_posts",
	"summary_timeout":    "summary.timeout",
	"summary_max_tokens": "summary.max_tokens",

	"sweep_enabled":  "sweep.enabled",
	"sweep_interval": "sweep.interval",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config
// paths. Unknown variables map to "" and are dropped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
