// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Load builds the configuration from layered sources and validates it.
// Precedence: environment > config file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct.
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Layer 2: optional config file.
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment variables, highest priority.
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// configGroups are the top-level sections an environment variable may target.
var configGroups = []string{"api", "realtime", "state", "logging", "checkout"}

// envTransform maps an environment variable name to a koanf path:
// AMORA_API_BASE_URL -> api.base_url, AMORA_LOGGING_LEVEL -> logging.level.
// The first underscore-delimited segment selects the section; the remainder
// is the key with underscores preserved.
func envTransform(name string) string {
	trimmed := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	for _, group := range configGroups {
		prefix := group + "_"
		if strings.HasPrefix(trimmed, prefix) {
			return group + "." + strings.TrimPrefix(trimmed, prefix)
		}
	}
	// Unknown variable: leave it outside every section so Unmarshal ignores it.
	return trimmed
}
