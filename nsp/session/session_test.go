package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionIDOf(b byte) [32]byte {
	var id [32]byte
	for i := range id {
		id[i] = b
	}
	return id
}

func TestSessionCreation(t *testing.T) {
	sharedSecret := make([]byte, 32)
	for i := range sharedSecret {
		sharedSecret[i] = 1
	}
	sess, err := Derive(sharedSecret, sessionIDOf(2), DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, sessionIDOf(2), sess.ID())
	assert.False(t, sess.IsExpired())
	assert.True(t, sess.RemainingLifetime() > 0)
}

func TestKeyDerivationDeterministic(t *testing.T) {
	sharedSecret := make([]byte, 32)
	for i := range sharedSecret {
		sharedSecret[i] = 3
	}
	id := sessionIDOf(4)

	s1, err := Derive(sharedSecret, id, DefaultParams())
	require.NoError(t, err)
	s2, err := Derive(sharedSecret, id, DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, s1.keyForTesting(), s2.keyForTesting())
}

func TestKeyDerivationUnique(t *testing.T) {
	sharedSecret := make([]byte, 32)
	for i := range sharedSecret {
		sharedSecret[i] = 5
	}

	s1, err := Derive(sharedSecret, sessionIDOf(6), DefaultParams())
	require.NoError(t, err)
	s2, err := Derive(sharedSecret, sessionIDOf(7), DefaultParams())
	require.NoError(t, err)

	assert.NotEqual(t, s1.keyForTesting(), s2.keyForTesting())
}

func TestEncryptDecrypt(t *testing.T) {
	sharedSecret := make([]byte, 32)
	for i := range sharedSecret {
		sharedSecret[i] = 8
	}
	sess, err := Derive(sharedSecret, sessionIDOf(9), DefaultParams())
	require.NoError(t, err)

	var nonce [12]byte
	for i := range nonce {
		nonce[i] = 10
	}
	plaintext := []byte("Neural signal data frame 0x42")

	ciphertext, err := sess.Encrypt(nonce, plaintext)
	require.NoError(t, err)

	decrypted, err := sess.Decrypt(nonce, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestSessionExpiration(t *testing.T) {
	sharedSecret := make([]byte, 32)
	for i := range sharedSecret {
		sharedSecret[i] = 11
	}
	params := DefaultParams()
	params.TimeoutSeconds = 0

	sess, err := Derive(sharedSecret, sessionIDOf(12), params)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	assert.True(t, sess.IsExpired())
	assert.Equal(t, time.Duration(0), sess.RemainingLifetime())

	var nonce [12]byte
	_, err = sess.Encrypt(nonce, []byte("test"))
	assert.Error(t, err)
}

func TestKeyZeroizationOnClose(t *testing.T) {
	sharedSecret := make([]byte, 32)
	for i := range sharedSecret {
		sharedSecret[i] = 14
	}
	sess, err := Derive(sharedSecret, sessionIDOf(15), DefaultParams())
	require.NoError(t, err)

	var zero [32]byte
	assert.NotEqual(t, zero, sess.keyForTesting())

	sess.Close()
	assert.Equal(t, zero, sess.keyForTesting())

	// Closing twice must not panic.
	sess.Close()
}
