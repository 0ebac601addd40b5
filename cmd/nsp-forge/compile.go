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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/nsp-forge/forge"
	"github.com/sage-x-project/nsp-forge/internal/logger"
)

var (
	compileInPath  string
	compileOutPath string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile Staves DSL source into bytecode",
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileInPath, "in", "i", "-", "Staves source file ('-' for stdin)")
	compileCmd.Flags().StringVarP(&compileOutPath, "out", "o", "-", "bytecode output file ('-' for stdout)")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	log := logger.GetDefaultLogger()

	source, err := readInput(compileInPath)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	result, err := forge.Compile(string(source))
	if err != nil {
		log.Error("compile failed", logger.Error(err))
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.String())
	}
	log.Info("compile succeeded",
		logger.Int("bytecode_bytes", len(result.Bytecode)),
		logger.Any("staves", result.StaveNames),
	)

	return writeOutput(compileOutPath, result.Bytecode)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
