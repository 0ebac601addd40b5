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
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file into the process environment if present.
// Missing files are not an error — operators may configure purely
// through the YAML file or the shell environment instead.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// GetEnvironment returns the current environment from NSP_ENV or
// defaults to development.
func GetEnvironment() string {
	env := os.Getenv("NSP_ENV")
	if env == "" {
		env = os.Getenv("ENVIRONMENT")
	}
	if env == "" {
		env = "development"
	}
	return strings.ToLower(env)
}

// IsProduction returns true if running in production environment.
func IsProduction() bool {
	return GetEnvironment() == "production"
}

// applyEnvironmentOverrides overrides config fields with environment
// variables, taking precedence over both the built-in defaults and any
// YAML file.
func applyEnvironmentOverrides(cfg *Config) {
	if v := os.Getenv("NSP_SESSION_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.Session.TimeoutSeconds = uint32(n)
		}
	}
	if v := os.Getenv("NSP_SESSION_MAX_FRAME_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.Session.MaxFrameSize = uint32(n)
		}
	}
	if v := os.Getenv("NSP_KEYSTORE_DIR"); v != "" {
		cfg.KeyStore.Directory = v
	}
	if v := os.Getenv("NSP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NSP_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	switch os.Getenv("NSP_METRICS_ENABLED") {
	case "true":
		cfg.Metrics.Enabled = true
	case "false":
		cfg.Metrics.Enabled = false
	}
}
