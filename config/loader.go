// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"path/filepath"
)

// LoaderOptions configures the configuration loader.
type LoaderOptions struct {
	// ConfigDir is the directory containing config.yaml and .env (default "config").
	ConfigDir string
	// SkipDotEnv disables .env loading.
	SkipDotEnv bool
}

// DefaultLoaderOptions returns default loader options.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{ConfigDir: "config"}
}

// Load loads configuration from an optional .env file and an optional
// config.yaml, both under opts.ConfigDir, layered over Default() and
// then overridden by explicit environment variables.
func Load(opts ...LoaderOptions) (*Config, error) {
	options := DefaultLoaderOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	if !options.SkipDotEnv {
		if err := LoadDotEnv(filepath.Join(options.ConfigDir, ".env")); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg, err := LoadFromFile(filepath.Join(options.ConfigDir, "config.yaml"))
	if err != nil {
		return nil, err
	}

	if cfg.Environment == "" {
		cfg.Environment = GetEnvironment()
	}

	applyEnvironmentOverrides(cfg)

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad(opts ...LoaderOptions) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
