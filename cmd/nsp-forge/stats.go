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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/nsp-forge/internal/metrics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a snapshot of in-process compile and handshake counters",
	Long: `stats reports the compile and handshake counters this process has
accumulated since it started. It reads the same in-memory collector
the compile and handshake-selftest commands feed, and is independent
of the Prometheus registry exposed over HTTP by a long-running server.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	snap := metrics.GlobalCollector.GetSnapshot()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "uptime: %s\n", snap.Uptime.Round(1000000))
	fmt.Fprintf(out, "compiles: %d (failures=%d, tara_violations=%d, avg=%.1fus, p95=%dus)\n",
		snap.CompileCount, snap.CompileFailures, snap.TaraViolations, snap.AvgCompileTime, snap.P95CompileTime)
	fmt.Fprintf(out, "handshakes: %d (failures=%d, avg=%.1fus, p95=%dus)\n",
		snap.HandshakeCount, snap.HandshakeFailures, snap.AvgHandshakeTime, snap.P95HandshakeTime)
	return nil
}
