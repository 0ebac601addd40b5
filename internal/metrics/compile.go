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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CompilesTotal tracks Staves compile attempts
	CompilesTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "compile",
			Name:      "total",
			Help:      "Total number of Staves compile attempts",
		},
		[]string{"status"}, // success, parse_error, tara_violation, codegen_error
	)

	// TaraViolationsTotal tracks rejected compiles by the violated limit
	TaraViolationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "compile",
			Name:      "tara_violations_total",
			Help:      "Total number of TARA safety violations by limit kind",
		},
		[]string{"limit"}, // element_or_tone_limit (any Validate failure), max_bytecode
	)

	// CompileDuration tracks compile pipeline duration
	CompileDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "compile",
			Name:      "duration_seconds",
			Help:      "Staves compile pipeline duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~820ms
		},
	)

	// BytecodeSize tracks emitted bytecode sizes
	BytecodeSize = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "compile",
			Name:      "bytecode_size_bytes",
			Help:      "Size of emitted Staves bytecode in bytes",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10), // 64B to 16MB
		},
	)
)
