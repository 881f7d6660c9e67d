// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scout

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration.
//
// Description:
//
//	Loaded from an optional YAML file, then overridden by environment
//	variables, then validated. Secrets (the Anthropic API key) never
//	live here; the model client reads them itself.
type Config struct {
	Server struct {
		Host string `yaml:"host" validate:"required"`
		Port int    `yaml:"port" validate:"required,min=1,max=65535"`
	} `yaml:"server"`

	Weaviate struct {
		Host   string `yaml:"host" validate:"required"`
		Scheme string `yaml:"scheme" validate:"required,oneof=http https"`
		Class  string `yaml:"class" validate:"required"`
	} `yaml:"weaviate"`

	// TeamNeedsFile is the path to the team needs JSON file.
	TeamNeedsFile string `yaml:"team_needs_file" validate:"required"`

	RateLimit struct {
		// RequestsPerSecond throttles the chat endpoint. Zero disables
		// the limiter.
		RequestsPerSecond float64 `yaml:"requests_per_second" validate:"min=0"`
		Burst             int     `yaml:"burst" validate:"min=0"`
	} `yaml:"rate_limit"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Weaviate.Host = "localhost:8080"
	cfg.Weaviate.Scheme = "http"
	cfg.Weaviate.Class = "DraftProspect"
	cfg.TeamNeedsFile = "nfl_team_needs_2026_ALL_TEAMS.json"
	cfg.RateLimit.RequestsPerSecond = 5
	cfg.RateLimit.Burst = 10
	return cfg
}

// LoadConfig builds the effective configuration.
//
// Description:
//
//	Starts from defaults, merges the YAML file when path is non-empty,
//	applies environment overrides, and validates the result.
//
// Environment overrides:
//
//	SCOUT_HOST, SCOUT_PORT, WEAVIATE_HOST, WEAVIATE_SCHEME,
//	WEAVIATE_CLASS, TEAM_NEEDS_FILE
//
// Inputs:
//   - path: Optional YAML config path. Empty skips the file.
//
// Outputs:
//   - Config: The validated configuration.
//   - error: Non-nil on read, parse, or validation failure.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("scout: reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("scout: parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("scout: invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCOUT_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SCOUT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	// PORT is what most container platforms inject.
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WEAVIATE_HOST"); v != "" {
		cfg.Weaviate.Host = v
	}
	if v := os.Getenv("WEAVIATE_SCHEME"); v != "" {
		cfg.Weaviate.Scheme = v
	}
	if v := os.Getenv("WEAVIATE_CLASS"); v != "" {
		cfg.Weaviate.Class = v
	}
	if v := os.Getenv("TEAM_NEEDS_FILE"); v != "" {
		cfg.TeamNeedsFile = v
	}
}
