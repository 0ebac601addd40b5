package crypto

import (
	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// dsaScheme is the chosen DSA: Dilithium mode 3, the circl scheme
// closest to ML-DSA-65 / NIST Level-3.
var dsaScheme sign.Scheme = mode3.Scheme()

// Dsa is a DSA keypair.
type Dsa struct {
	pk sign.PublicKey
	sk sign.PrivateKey
}

// GenerateDsa generates a fresh signing keypair.
func GenerateDsa() (*Dsa, error) {
	pk, sk, err := dsaScheme.GenerateKey()
	if err != nil {
		return nil, newCryptoError("dsa keygen", err)
	}
	return &Dsa{pk: pk, sk: sk}, nil
}

// PublicKeyBytes returns the encoded public key.
func (d *Dsa) PublicKeyBytes() ([]byte, error) {
	b, err := d.pk.MarshalBinary()
	if err != nil {
		return nil, newCryptoError("dsa marshal public key", err)
	}
	return b, nil
}

// Sign produces a detached signature over message.
func (d *Dsa) Sign(message []byte) []byte {
	return dsaScheme.Sign(d.sk, message, nil)
}

// VerifyDsa checks signature against message under the encoded public
// key. This MUST be constant-time over valid-length inputs and MUST
// return false — never panic or return an error — for any malformed
// public key, signature, or message, so signature checks can run
// unconditionally before any state transition without leaking which
// part of the input was invalid.
func VerifyDsa(publicKey, message, signature []byte) bool {
	if len(publicKey) != dsaScheme.PublicKeySize() {
		return false
	}
	if len(signature) != dsaScheme.SignatureSize() {
		return false
	}
	pk, err := dsaScheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return false
	}
	return dsaScheme.Verify(pk, message, signature)
}

// DsaPublicKeySize and DsaSignatureSize expose the concrete scheme's
// sizes for callers that need to pre-size buffers or validate framing
// without hardcoding FIPS 204 constants that circl's Dilithium mode 3
// does not exactly share.
func DsaPublicKeySize() int { return dsaScheme.PublicKeySize() }
func DsaSignatureSize() int { return dsaScheme.SignatureSize() }
