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
	"os"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/nsp-forge/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:     "nsp-forge",
	Short:   "NSP handshake and Staves compiler CLI",
	Version: version.String(),
	Long: `nsp-forge drives the Neural Secure Protocol handshake and the Staves
DSL compiler from the command line.

This tool supports:
- Generating ephemeral KEM/DSA keypairs for a handshake party
- Compiling Staves DSL source into bytecode
- Disassembling compiled Staves bytecode
- Running a loopback handshake self-test
- Printing in-process compile/handshake stats`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	// Note: commands are registered in their respective files
	// - keygen.go: keygenCmd
	// - compile.go: compileCmd
	// - disasm.go: disasmCmd
	// - selftest.go: selftestCmd
	// - stats.go: statsCmd
}
