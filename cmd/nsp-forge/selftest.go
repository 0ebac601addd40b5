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
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sage-x-project/nsp-forge/internal/logger"
	"github.com/sage-x-project/nsp-forge/nsp/handshake"
	"github.com/sage-x-project/nsp-forge/nsp/message"
	"github.com/sage-x-project/nsp-forge/nsp/session"
)

var selftestCmd = &cobra.Command{
	Use:   "handshake-selftest",
	Short: "Run a loopback NSP handshake between an in-process client and server",
	Long: `Drives both halves of the four-message NSP handshake as two
goroutines exchanging messages over channels, and reports whether both
sides reached the established state with matching session ids.`,
	RunE: runSelftest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}

// loopbackWire carries each handshake message from one goroutine to the
// other; each channel has a buffer of one and is used exactly once,
// mirroring a single round-trip of a four-message handshake.
type loopbackWire struct {
	clientHello   chan *message.ClientHello
	serverHello   chan *message.ServerHello
	clientConfirm chan *message.ClientConfirm
	serverReady   chan *message.ServerReady
	clientDsaPK   chan []byte
	serverDsaPK   chan []byte
}

func newLoopbackWire() *loopbackWire {
	return &loopbackWire{
		clientHello:   make(chan *message.ClientHello, 1),
		serverHello:   make(chan *message.ServerHello, 1),
		clientConfirm: make(chan *message.ClientConfirm, 1),
		serverReady:   make(chan *message.ServerReady, 1),
		clientDsaPK:   make(chan []byte, 1),
		serverDsaPK:   make(chan []byte, 1),
	}
}

func runSelftest(cmd *cobra.Command, args []string) error {
	runID := uuid.NewString()
	log := logger.GetDefaultLogger().WithFields(logger.String("run_id", runID))
	wire := newLoopbackWire()

	var clientID [32]byte
	if _, err := rand.Read(clientID[:]); err != nil {
		return fmt.Errorf("generate client id: %w", err)
	}

	var eg errgroup.Group
	var clientSession, serverSession *session.Session

	eg.Go(func() error {
		client, err := handshake.NewClientHandshake(clientID)
		if err != nil {
			return fmt.Errorf("client: new handshake: %w", err)
		}
		dsaPK, err := client.DsaPublicKey()
		if err != nil {
			return fmt.Errorf("client: dsa public key: %w", err)
		}
		wire.clientDsaPK <- dsaPK

		hello, err := client.CreateHello()
		if err != nil {
			return fmt.Errorf("client: create hello: %w", err)
		}
		wire.clientHello <- hello

		serverHello := <-wire.serverHello
		serverDsaPK := <-wire.serverDsaPK
		if err := client.ProcessServerHello(serverHello, serverDsaPK); err != nil {
			return fmt.Errorf("client: process server hello: %w", err)
		}

		confirm, err := client.CreateConfirm()
		if err != nil {
			return fmt.Errorf("client: create confirm: %w", err)
		}
		wire.clientConfirm <- confirm

		ready := <-wire.serverReady
		if err := client.ProcessServerReady(ready); err != nil {
			return fmt.Errorf("client: process server ready: %w", err)
		}

		if client.State() != handshake.StateEstablished {
			return fmt.Errorf("client: unexpected terminal state %s", client.State())
		}
		clientSession = client.Session()
		return nil
	})

	eg.Go(func() error {
		server, err := handshake.NewServerHandshake()
		if err != nil {
			return fmt.Errorf("server: new handshake: %w", err)
		}
		dsaPK, err := server.DsaPublicKey()
		if err != nil {
			return fmt.Errorf("server: dsa public key: %w", err)
		}
		wire.serverDsaPK <- dsaPK

		hello := <-wire.clientHello
		clientDsaPK := <-wire.clientDsaPK
		if err := server.ProcessClientHello(hello, clientDsaPK); err != nil {
			return fmt.Errorf("server: process client hello: %w", err)
		}

		serverHello, err := server.CreateServerHello(hello.KemPK, session.DefaultParams())
		if err != nil {
			return fmt.Errorf("server: create server hello: %w", err)
		}
		wire.serverHello <- serverHello

		confirm := <-wire.clientConfirm
		if err := server.ProcessClientConfirm(confirm); err != nil {
			return fmt.Errorf("server: process client confirm: %w", err)
		}

		ready, err := server.CreateReady()
		if err != nil {
			return fmt.Errorf("server: create ready: %w", err)
		}
		wire.serverReady <- ready

		if err := server.MarkEstablished(); err != nil {
			return fmt.Errorf("server: mark established: %w", err)
		}
		serverSession = server.Session()
		return nil
	})

	if err := eg.Wait(); err != nil {
		log.Error("handshake selftest failed", logger.Error(err))
		return err
	}

	if clientSession.ID() != serverSession.ID() {
		return fmt.Errorf("session id mismatch: client=%x server=%x", clientSession.ID(), serverSession.ID())
	}

	log.Info("handshake selftest succeeded", logger.Any("session_id", clientSession.ID()))
	fmt.Fprintf(cmd.OutOrStdout(), "handshake established, session_id=%x\n", clientSession.ID())
	return nil
}
