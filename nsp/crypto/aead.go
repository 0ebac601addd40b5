package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// NonceSize is the fixed AES-256-GCM nonce length.
const NonceSize = 12

// KeySize is the AES-256-GCM key length.
const KeySize = 32

// Aead wraps AES-256-GCM over a fixed 32-byte key, built from the
// standard-library construction (aes.NewCipher + NewGCM) and grounded
// on the Cipher type of the original nsp-core implementation which
// wraps the same primitive.
//
// The cipher suite is fixed at AES-256-GCM rather than negotiated, so
// crypto/aes and crypto/cipher cover it directly; no third-party AEAD
// package is used.
type Aead struct {
	aead cipher.AEAD
}

// NewAead builds an AEAD instance bound to key, which must be exactly
// KeySize bytes.
func NewAead(key [KeySize]byte) (*Aead, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, newCryptoError("aead new cipher", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, newCryptoError("aead new gcm", err)
	}
	return &Aead{aead: gcm}, nil
}

// Encrypt seals plaintext under nonce, returning ciphertext‖tag.
func (a *Aead) Encrypt(nonce [NonceSize]byte, plaintext []byte) ([]byte, error) {
	return a.aead.Seal(nil, nonce[:], plaintext, nil), nil
}

// Decrypt opens a ciphertext‖tag produced by Encrypt under the same
// nonce. Authentication failure is surfaced as a CryptoError.
func (a *Aead) Decrypt(nonce [NonceSize]byte, ciphertext []byte) ([]byte, error) {
	pt, err := a.aead.Open(nil, nonce[:], ciphertext, nil)
	if err != nil {
		return nil, newCryptoError("aead decrypt", fmt.Errorf("authentication failed: %w", err))
	}
	return pt, nil
}
