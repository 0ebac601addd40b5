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

	"github.com/sage-x-project/nsp-forge/forge/disasm"
)

var disasmInPath string

var disasmCmd = &cobra.Command{
	Use:   "disasm",
	Short: "Disassemble compiled Staves bytecode to a human-readable listing",
	RunE:  runDisasm,
}

func init() {
	disasmCmd.Flags().StringVarP(&disasmInPath, "in", "i", "-", "bytecode file ('-' for stdin)")
	rootCmd.AddCommand(disasmCmd)
}

func runDisasm(cmd *cobra.Command, args []string) error {
	bytecode, err := readInput(disasmInPath)
	if err != nil {
		return fmt.Errorf("read bytecode: %w", err)
	}

	text, err := disasm.Disassemble(bytecode)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
