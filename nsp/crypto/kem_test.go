package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncapsulateCanonicalOrder pins the required (ciphertext,
// sharedSecret) return order. The original source swapped these two
// values at the call site because its KEM library's own byte
// accessors returned them in the opposite order from what the rest of
// the code expected; this test exists so a future KEM library swap
// can't silently reintroduce that bug here.
func TestEncapsulateCanonicalOrder(t *testing.T) {
	server, err := GenerateKem()
	require.NoError(t, err)

	pkBytes, err := server.PublicKeyBytes()
	require.NoError(t, err)

	ct, ss, err := EncapsulateKem(pkBytes)
	require.NoError(t, err)

	assert.Len(t, ct, KemCiphertextSize())
	assert.Len(t, ss, KemSharedSecretSize())
	assert.NotEqual(t, KemCiphertextSize(), KemSharedSecretSize(),
		"ciphertext and shared-secret sizes must differ for this regression test to be meaningful")
}

func TestKemRoundTrip(t *testing.T) {
	server, err := GenerateKem()
	require.NoError(t, err)

	pkBytes, err := server.PublicKeyBytes()
	require.NoError(t, err)

	ct, ssClient, err := EncapsulateKem(pkBytes)
	require.NoError(t, err)

	ssServer, err := server.Decapsulate(ct)
	require.NoError(t, err)

	assert.Equal(t, ssClient, ssServer)
}

func TestKemDecapsulateRejectsWrongLength(t *testing.T) {
	server, err := GenerateKem()
	require.NoError(t, err)

	_, err = server.Decapsulate(make([]byte, KemSharedSecretSize()))
	require.Error(t, err)
}
