package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDsaSignVerify(t *testing.T) {
	signer, err := GenerateDsa()
	require.NoError(t, err)

	pk, err := signer.PublicKeyBytes()
	require.NoError(t, err)

	message := []byte("Neural data frame 0x42")
	sig := signer.Sign(message)

	assert.True(t, VerifyDsa(pk, message, sig))
}

func TestDsaVerifyRejectsTamperedSignature(t *testing.T) {
	signer, err := GenerateDsa()
	require.NoError(t, err)

	pk, err := signer.PublicKeyBytes()
	require.NoError(t, err)

	message := []byte("Neural data frame 0x42")
	sig := signer.Sign(message)
	sig[0] ^= 0xFF

	assert.False(t, VerifyDsa(pk, message, sig))
}

func TestDsaVerifyRejectsMalformedInputsWithoutPanicking(t *testing.T) {
	assert.False(t, VerifyDsa(nil, []byte("m"), nil))
	assert.False(t, VerifyDsa([]byte("short"), []byte("m"), []byte("short")))
}
