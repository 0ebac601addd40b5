package handshake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/nsp-forge/nsp/session"
)

func TestFullHandshakeFlow(t *testing.T) {
	var clientID [32]byte
	for i := range clientID {
		clientID[i] = 0x11
	}

	client, err := NewClientHandshake(clientID)
	require.NoError(t, err)
	server, err := NewServerHandshake()
	require.NoError(t, err)

	clientDsaPK, err := client.DsaPublicKey()
	require.NoError(t, err)
	serverDsaPK, err := server.DsaPublicKey()
	require.NoError(t, err)
	params := session.DefaultParams()

	clientHello, err := client.CreateHello()
	require.NoError(t, err)
	assert.Equal(t, StateClientHelloSent, client.State())

	require.NoError(t, server.ProcessClientHello(clientHello, clientDsaPK))

	serverHello, err := server.CreateServerHello(clientHello.KemPK, params)
	require.NoError(t, err)
	assert.Equal(t, StateServerHelloSent, server.State())

	require.NoError(t, client.ProcessServerHello(serverHello, serverDsaPK))
	assert.Equal(t, StateServerHelloSent, client.State())

	clientConfirm, err := client.CreateConfirm()
	require.NoError(t, err)
	assert.Equal(t, StateClientConfirmSent, client.State())

	require.NoError(t, server.ProcessClientConfirm(clientConfirm))

	serverReady, err := server.CreateReady()
	require.NoError(t, err)
	assert.Equal(t, StateServerReadySent, server.State())

	require.NoError(t, client.ProcessServerReady(serverReady))
	assert.Equal(t, StateEstablished, client.State())

	require.NoError(t, server.MarkEstablished())
	assert.Equal(t, StateEstablished, server.State())

	assert.Equal(t, client.Session().ID(), server.Session().ID())

	var nonce [12]byte
	for i := range nonce {
		nonce[i] = 0x99
	}
	data := []byte("Neural signal established")
	encrypted, err := client.Session().Encrypt(nonce, data)
	require.NoError(t, err)
	decrypted, err := server.Session().Decrypt(nonce, encrypted)
	require.NoError(t, err)
	assert.Equal(t, data, decrypted)
}

func TestHandshakeInvalidSignature(t *testing.T) {
	var clientID [32]byte
	for i := range clientID {
		clientID[i] = 0x22
	}

	client, err := NewClientHandshake(clientID)
	require.NoError(t, err)
	server, err := NewServerHandshake()
	require.NoError(t, err)

	clientHello, err := client.CreateHello()
	require.NoError(t, err)
	clientDsaPK, err := client.DsaPublicKey()
	require.NoError(t, err)

	clientHello.Signature[0] ^= 0xFF

	err = server.ProcessClientHello(clientHello, clientDsaPK)
	require.Error(t, err)
	assert.Equal(t, StateFailed, server.State())
	assert.Contains(t, server.FailReason(), "signature")
}

func TestHandshakeTimestampExpiry(t *testing.T) {
	var clientID [32]byte
	for i := range clientID {
		clientID[i] = 0x33
	}

	client, err := NewClientHandshake(clientID)
	require.NoError(t, err)
	server, err := NewServerHandshake()
	require.NoError(t, err)

	clientHello, err := client.CreateHello()
	require.NoError(t, err)
	clientDsaPK, err := client.DsaPublicKey()
	require.NoError(t, err)

	clientHello.Timestamp -= 600
	clientHello.Signature = client.dsa.Sign(clientHello.SigningData())

	err = server.ProcessClientHello(clientHello, clientDsaPK)
	require.Error(t, err)
	assert.Equal(t, StateFailed, server.State())
	assert.Contains(t, server.FailReason(), "timestamp")
}

func TestClientHandshakeRejectsOutOfOrderCalls(t *testing.T) {
	var clientID [32]byte
	client, err := NewClientHandshake(clientID)
	require.NoError(t, err)

	_, err = client.CreateConfirm()
	assert.Error(t, err)
}

func TestServerHandshakeRejectsOutOfOrderCalls(t *testing.T) {
	server, err := NewServerHandshake()
	require.NoError(t, err)

	_, err = server.CreateReady()
	assert.Error(t, err)
}
