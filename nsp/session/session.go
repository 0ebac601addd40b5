// Package session implements the NSP session object: a symmetric key
// derived from a KEM shared secret via HKDF-SHA-256, plus lifecycle and
// AEAD encrypt/decrypt, grounded on core/session/session.go (the
// Derive / deriveKeys / Close shape) and the original nsp-core
// session.rs (the single-key HKDF derivation and Drop-based
// zeroization this package reproduces with an explicit Close method,
// since Go has no deterministic destructor).
package session

import (
	"crypto/sha256"
	"io"
	"sync"
	"time"

	"golang.org/x/crypto/hkdf"

	"github.com/sage-x-project/nsp-forge/internal/metrics"
	ncrypto "github.com/sage-x-project/nsp-forge/nsp/crypto"
)

// sessionKeyInfo is the fixed HKDF "info" label for session key derivation.
const sessionKeyInfo = "NSP-SESSION-KEY-V1"

// CipherSuiteAES256GCM is the sole supported cipher suite tag.
const CipherSuiteAES256GCM = 0x01

// Params is the session's MaxFrameSize/TimeoutSeconds/CipherSuite triple.
type Params struct {
	MaxFrameSize   uint32
	TimeoutSeconds uint32
	CipherSuite    uint8
}

// DefaultParams returns (1 MiB, 3600 s, AES-256-GCM).
func DefaultParams() Params {
	return Params{
		MaxFrameSize:   1 << 20,
		TimeoutSeconds: 3600,
		CipherSuite:    CipherSuiteAES256GCM,
	}
}

// Session owns a 32-byte session id, a derived 32-byte key, and the
// AEAD instance bound to that key. The key is the sole secret the
// session holds; Close zeroes it.
type Session struct {
	mu        sync.Mutex
	id        [32]byte
	key       [32]byte
	createdAt time.Time
	expiresAt time.Time
	params    Params
	aead      *ncrypto.Aead
	closed    bool
}

// Derive builds a session from a KEM shared secret and a 32-byte
// session id, using HKDF-SHA-256 with salt = sessionID, IKM =
// sharedSecret, info = "NSP-SESSION-KEY-V1", L = 32.
func Derive(sharedSecret []byte, sessionID [32]byte, params Params) (*Session, error) {
	hk := hkdf.New(sha256.New, sharedSecret, sessionID[:], []byte(sessionKeyInfo))

	var key [32]byte
	if _, err := io.ReadFull(hk, key[:]); err != nil {
		return nil, &Error{Op: "derive", Err: err}
	}

	aead, err := ncrypto.NewAead(key)
	if err != nil {
		return nil, &Error{Op: "derive", Err: err}
	}

	now := time.Now()
	metrics.SessionsCreated.WithLabelValues("success").Inc()
	metrics.SessionsActive.Inc()
	return &Session{
		id:        sessionID,
		key:       key,
		createdAt: now,
		expiresAt: now.Add(time.Duration(params.TimeoutSeconds) * time.Second),
		params:    params,
		aead:      aead,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() [32]byte { return s.id }

// Params returns the session parameters.
func (s *Session) Params() Params { return s.params }

// IsExpired reports whether the session has passed its expiry time.
func (s *Session) IsExpired() bool {
	return !time.Now().Before(s.expiresAt)
}

// RemainingLifetime returns the time left before expiry, or zero.
func (s *Session) RemainingLifetime() time.Duration {
	remaining := time.Until(s.expiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Encrypt seals plaintext under nonce. Fails if the session has
// expired; callers are responsible for nonce uniqueness per
// (session, direction) as an operational contract, not an invariant
// this package enforces.
func (s *Session) Encrypt(nonce [12]byte, plaintext []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.IsExpired() {
		metrics.CryptoOperations.WithLabelValues("encrypt", "expired").Inc()
		return nil, &Error{Op: "encrypt", Err: errExpired}
	}
	ct, err := s.aead.Encrypt(nonce, plaintext)
	if err != nil {
		metrics.CryptoOperations.WithLabelValues("encrypt", "failure").Inc()
		return nil, &Error{Op: "encrypt", Err: err}
	}
	metrics.CryptoOperations.WithLabelValues("encrypt", "success").Inc()
	metrics.SessionMessageSize.WithLabelValues("outbound").Observe(float64(len(ct)))
	return ct, nil
}

// Decrypt opens ciphertext under nonce. Fails if the session has
// expired.
func (s *Session) Decrypt(nonce [12]byte, ciphertext []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.IsExpired() {
		metrics.CryptoOperations.WithLabelValues("decrypt", "expired").Inc()
		return nil, &Error{Op: "decrypt", Err: errExpired}
	}
	pt, err := s.aead.Decrypt(nonce, ciphertext)
	if err != nil {
		metrics.CryptoOperations.WithLabelValues("decrypt", "failure").Inc()
		return nil, &Error{Op: "decrypt", Err: err}
	}
	metrics.CryptoOperations.WithLabelValues("decrypt", "success").Inc()
	metrics.SessionMessageSize.WithLabelValues("inbound").Observe(float64(len(pt)))
	return pt, nil
}

// Close zeroes the session key. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for i := range s.key {
		s.key[i] = 0
	}
	s.closed = true
	metrics.SessionsActive.Dec()
	metrics.SessionsClosed.Inc()
}

// keyForTesting exposes the derived key for deterministic-derivation
// tests only; production callers never need the raw key.
func (s *Session) keyForTesting() [32]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}
