package crypto

import "fmt"

// CryptoError wraps a failure from a primitive: invalid key/ciphertext
// length or format, or an AEAD authentication failure.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("crypto: %s", e.Op)
	}
	return fmt.Sprintf("crypto: %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }

func newCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}
