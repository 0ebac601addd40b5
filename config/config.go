// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config loads the operator-facing defaults for session
// parameters, the TARA safety profile, key storage, and logging. None
// of these values affect the wire formats or safety invariants fixed
// by the nsp/session and forge/tara packages directly — they only
// seed the construction-time defaults a caller may override.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Environment string             `yaml:"environment" json:"environment"`
	Session     SessionConfig      `yaml:"session" json:"session"`
	Safety      SafetyConfig       `yaml:"safety" json:"safety"`
	KeyStore    KeyStoreConfig     `yaml:"keystore" json:"keystore"`
	Logging     LoggingConfig      `yaml:"logging" json:"logging"`
	Metrics     MetricsConfig      `yaml:"metrics" json:"metrics"`
}

// SessionConfig seeds nsp.SessionParams defaults.
type SessionConfig struct {
	MaxFrameSize    uint32 `yaml:"max_frame_size" json:"max_frame_size"`
	TimeoutSeconds  uint32 `yaml:"timeout_seconds" json:"timeout_seconds"`
	CipherSuite     uint8  `yaml:"cipher_suite" json:"cipher_suite"`
}

// SafetyConfig seeds forge/ast.SafetyDef defaults.
type SafetyConfig struct {
	MaxElements        uint32  `yaml:"max_elements" json:"max_elements"`
	MaxDepth           uint32  `yaml:"max_depth" json:"max_depth"`
	MaxBytecode        uint32  `yaml:"max_bytecode" json:"max_bytecode"`
	MaxChargeDensity   float64 `yaml:"max_charge_density" json:"max_charge_density"`
	MaxChargePerPhase  float64 `yaml:"max_charge_per_phase" json:"max_charge_per_phase"`
	MaxFrequency       uint32  `yaml:"max_frequency" json:"max_frequency"`
	MaxAmplitude       float64 `yaml:"max_amplitude" json:"max_amplitude"`
	ShannonK           float64 `yaml:"shannon_k" json:"shannon_k"`
}

// KeyStoreConfig controls where the CLI would persist generated KEM/DSA
// keypairs. Persistence format and lifecycle is an operator concern,
// not part of the NSP core.
type KeyStoreConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig controls the internal/logger output.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// MetricsConfig controls whether internal/metrics registers an HTTP
// handler for the CLI to optionally serve.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// Default returns the built-in session, safety, keystore, logging, and
// metrics defaults.
func Default() *Config {
	return &Config{
		Environment: "development",
		Session: SessionConfig{
			MaxFrameSize:   1 << 20,
			TimeoutSeconds: 3600,
			CipherSuite:    0x01,
		},
		Safety: SafetyConfig{
			MaxElements:       256,
			MaxDepth:          16,
			MaxBytecode:       65536,
			MaxChargeDensity:  30.0,
			MaxChargePerPhase: 4.0,
			MaxFrequency:      2500,
			MaxAmplitude:      1.0,
			ShannonK:          1.75,
		},
		KeyStore: KeyStoreConfig{
			Directory: "./keys",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}

// LoadFromFile loads a YAML override file on top of Default.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}
