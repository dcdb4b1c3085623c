// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package config loads client configuration via Koanf v2 with layered
// sources, highest priority last:
//
//  1. Built-in defaults
//  2. Optional YAML config file (CONFIG_PATH or the default search paths)
//  3. Environment variables with the AMORA_ prefix
//
// Example environment overrides:
//
//	AMORA_API_BASE_URL=https://api.amora.example
//	AMORA_LOGGING_LEVEL=debug
//	AMORA_STATE_DIR=~/.local/share/amora
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultConfigPaths lists where a config file is searched, in priority order.
var DefaultConfigPaths = []string{
	"amora.yaml",
	"amora.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix is stripped from environment variables before mapping them to
// koanf paths: AMORA_API_BASE_URL becomes api.base_url.
const envPrefix = "AMORA_"

// APIConfig configures the REST transport.
type APIConfig struct {
	// BaseURL is the single configured origin prefixed to every endpoint.
	BaseURL string `koanf:"base_url"`

	// Timeout bounds each ordinary request.
	Timeout time.Duration `koanf:"timeout"`

	// RestoreTimeout bounds the session-restore validation call. Kept short
	// so an unreachable server cannot block startup; the cached identity is
	// used instead.
	RestoreTimeout time.Duration `koanf:"restore_timeout"`

	// MaxRetries bounds retries after an HTTP 429.
	MaxRetries int `koanf:"max_retries"`

	// RetryBaseDelay seeds the exponential backoff between retries.
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// RateLimit and RateBurst throttle outgoing requests client-side.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// RealtimeConfig configures the websocket channel.
type RealtimeConfig struct {
	HandshakeTimeout  time.Duration `koanf:"handshake_timeout"`
	PingInterval      time.Duration `koanf:"ping_interval"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	MaxReconnectDelay time.Duration `koanf:"max_reconnect_delay"`
}

// StateConfig locates the durable local store.
type StateConfig struct {
	// Dir is the directory holding the Badger state database.
	Dir string `koanf:"dir"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CheckoutConfig configures the third-party payment widget.
type CheckoutConfig struct {
	// KeyID is the publishable gateway key handed to the checkout widget.
	KeyID string `koanf:"key_id"`
}

// Config is the complete client configuration.
type Config struct {
	API      APIConfig      `koanf:"api"`
	Realtime RealtimeConfig `koanf:"realtime"`
	State    StateConfig    `koanf:"state"`
	Logging  LoggingConfig  `koanf:"logging"`
	Checkout CheckoutConfig `koanf:"checkout"`
}

// defaultConfig returns a Config with all defaults applied. Defaults suit a
// local development server.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:5000",
			Timeout:        30 * time.Second,
			RestoreTimeout: 5 * time.Second,
			MaxRetries:     5,
			RetryBaseDelay: 1 * time.Second,
			RateLimit:      10,
			RateBurst:      20,
		},
		Realtime: RealtimeConfig{
			HandshakeTimeout:  10 * time.Second,
			PingInterval:      30 * time.Second,
			ReadTimeout:       60 * time.Second,
			MaxReconnectDelay: 32 * time.Second,
		},
		State: StateConfig{
			Dir: defaultStateDir(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Checkout: CheckoutConfig{
			KeyID: "",
		},
	}
}

// defaultStateDir resolves the per-user state directory.
func defaultStateDir() string {
	if base, err := os.UserCacheDir(); err == nil {
		return base + string(os.PathSeparator) + "amora"
	}
	return ".amora"
}

// Validate checks the loaded configuration for values that would only fail
// later and far from their cause.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme %q must be http or https", parsed.Scheme)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", c.API.Timeout)
	}
	if c.API.RestoreTimeout <= 0 {
		return fmt.Errorf("api.restore_timeout must be positive, got %v", c.API.RestoreTimeout)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative, got %d", c.API.MaxRetries)
	}
	if c.API.RateLimit <= 0 {
		return fmt.Errorf("api.rate_limit must be positive, got %v", c.API.RateLimit)
	}

	if c.Realtime.PingInterval <= 0 {
		return fmt.Errorf("realtime.ping_interval must be positive, got %v", c.Realtime.PingInterval)
	}
	if c.Realtime.ReadTimeout <= c.Realtime.PingInterval {
		return fmt.Errorf("realtime.read_timeout %v must exceed ping_interval %v",
			c.Realtime.ReadTimeout, c.Realtime.PingInterval)
	}

	if strings.TrimSpace(c.State.Dir) == "" {
		return fmt.Errorf("state.dir must not be empty")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a recognized level", c.Logging.Level)
	}

	return nil
}
