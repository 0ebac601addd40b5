// Package crypto wraps the post-quantum KEM and signature schemes and
// the AEAD cipher behind opaque byte-oriented interfaces, grounded on
// the scheme wrappers of the original nsp-core implementation
// (fips203/fips204) and adapted to the equivalent Go primitives this
// repository already depends on (cloudflare/circl).
package crypto

import (
	"fmt"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/kyber/kyber768"
)

// kemScheme is the chosen KEM: Kyber768, the circl scheme closest to
// the ML-KEM-768 / NIST Level-3 parameters. Sizes are read from the
// scheme itself rather than hardcoded, since circl's Round-3 Kyber768
// sizes differ slightly from the final ML-KEM-768 FIPS 203 sizes.
var kemScheme = kyber768.Scheme()

// Kem is a KEM keypair: a fresh public/secret key generated for one
// handshake party.
type Kem struct {
	pk kem.PublicKey
	sk kem.PrivateKey
}

// GenerateKem generates a fresh KEM keypair.
func GenerateKem() (*Kem, error) {
	pk, sk, err := kemScheme.GenerateKeyPair()
	if err != nil {
		return nil, newCryptoError("kem keygen", err)
	}
	return &Kem{pk: pk, sk: sk}, nil
}

// PublicKeyBytes returns the encoded public key.
func (k *Kem) PublicKeyBytes() ([]byte, error) {
	b, err := k.pk.MarshalBinary()
	if err != nil {
		return nil, newCryptoError("kem marshal public key", err)
	}
	return b, nil
}

// KemCiphertextSize and KemSharedSecretSize expose the concrete
// scheme's sizes, so callers never have to hardcode NIST Level-3
// constants that may not match the library in use.
func KemCiphertextSize() int  { return kemScheme.CiphertextSize() }
func KemSharedSecretSize() int { return kemScheme.SharedKeySize() }
func KemPublicKeySize() int   { return kemScheme.PublicKeySize() }

// EncapsulateKem runs the KEM's public operation against a peer's
// encoded public key.
//
// Return order is fixed as (ciphertext, sharedSecret). The original
// source had a library quirk where call sites had to swap these two
// return values because that library's own accessor order was
// reversed from what the rest of the code expected. circl's
// kem.Scheme.Encapsulate already returns (ct, ss, err) in the order
// this function promises, so no swap is needed here; the regression
// test in kem_test.go pins this order against the two values' distinct
// lengths so any future scheme swap that reverses them is caught
// immediately rather than silently breaking the handshake.
func EncapsulateKem(peerPublicKey []byte) (ciphertext, sharedSecret []byte, err error) {
	pk, err := kemScheme.UnmarshalBinaryPublicKey(peerPublicKey)
	if err != nil {
		return nil, nil, newCryptoError("kem unmarshal public key", err)
	}
	ct, ss, err := kemScheme.Encapsulate(pk)
	if err != nil {
		return nil, nil, newCryptoError("kem encapsulate", err)
	}
	return ct, ss, nil
}

// Decapsulate recovers the shared secret from a ciphertext using this
// keypair's secret key.
func (k *Kem) Decapsulate(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != kemScheme.CiphertextSize() {
		return nil, newCryptoError("kem decapsulate", fmt.Errorf(
			"invalid ciphertext length: got %d, want %d", len(ciphertext), kemScheme.CiphertextSize()))
	}
	ss, err := kemScheme.Decapsulate(k.sk, ciphertext)
	if err != nil {
		return nil, newCryptoError("kem decapsulate", err)
	}
	return ss, nil
}
