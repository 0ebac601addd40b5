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
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/nsp-forge/internal/logger"
	ncrypto "github.com/sage-x-project/nsp-forge/nsp/crypto"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an ephemeral KEM/DSA keypair for a handshake party",
	Long: `Generates a fresh Kyber768 KEM keypair and a Dilithium mode3 signing
keypair and prints the public keys as base64. Private key material is
never written to disk or printed: this command is a throwaway generator
for manual handshake testing, not a key-management tool.`,
	RunE: runKeygen,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}

func runKeygen(cmd *cobra.Command, args []string) error {
	log := logger.GetDefaultLogger()

	kem, err := ncrypto.GenerateKem()
	if err != nil {
		return fmt.Errorf("generate kem keypair: %w", err)
	}
	dsa, err := ncrypto.GenerateDsa()
	if err != nil {
		return fmt.Errorf("generate dsa keypair: %w", err)
	}

	kemPK, err := kem.PublicKeyBytes()
	if err != nil {
		return fmt.Errorf("marshal kem public key: %w", err)
	}
	dsaPK, err := dsa.PublicKeyBytes()
	if err != nil {
		return fmt.Errorf("marshal dsa public key: %w", err)
	}

	log.Info("generated handshake keypair",
		logger.Int("kem_public_key_bytes", len(kemPK)),
		logger.Int("dsa_public_key_bytes", len(dsaPK)),
	)

	fmt.Fprintf(cmd.OutOrStdout(), "kem_public_key:  %s\n", base64.StdEncoding.EncodeToString(kemPK))
	fmt.Fprintf(cmd.OutOrStdout(), "dsa_public_key:  %s\n", base64.StdEncoding.EncodeToString(dsaPK))
	return nil
}
