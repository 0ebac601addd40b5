package handshake

import (
	"crypto/rand"
	"time"

	"github.com/sage-x-project/nsp-forge/internal/metrics"
	ncrypto "github.com/sage-x-project/nsp-forge/nsp/crypto"
	"github.com/sage-x-project/nsp-forge/nsp/message"
	nsession "github.com/sage-x-project/nsp-forge/nsp/session"
)

// ServerHandshake drives the responder's side of the handshake:
// process_client_hello -> create_server_hello -> process_client_confirm
// -> create_ready -> mark_established.
type ServerHandshake struct {
	state     State
	failReason string
	sessionID [32]byte
	dsa       *ncrypto.Dsa
	session   *nsession.Session
	clientID  *[32]byte
	startedAt time.Time
}

// NewServerHandshake generates a signing keypair and a random session
// id, and returns a machine in StateInitial.
func NewServerHandshake() (*ServerHandshake, error) {
	dsa, err := ncrypto.GenerateDsa()
	if err != nil {
		return nil, &Error{Op: "new server handshake", Err: err}
	}
	var sessionID [32]byte
	if _, err := rand.Read(sessionID[:]); err != nil {
		return nil, &Error{Op: "new server handshake", Err: err}
	}
	return &ServerHandshake{state: StateInitial, sessionID: sessionID, dsa: dsa, startedAt: time.Now()}, nil
}

// State returns the machine's current state.
func (s *ServerHandshake) State() State { return s.state }

// FailReason returns the reason recorded when the state is StateFailed.
func (s *ServerHandshake) FailReason() string { return s.failReason }

// Session returns the established session, or nil before it exists.
func (s *ServerHandshake) Session() *nsession.Session { return s.session }

// DsaPublicKey returns this handshake's signing public key.
func (s *ServerHandshake) DsaPublicKey() ([]byte, error) { return s.dsa.PublicKeyBytes() }

func (s *ServerHandshake) fail(reason string) {
	s.state = StateFailed
	s.failReason = reason
	metrics.HandshakesFailed.WithLabelValues(reason).Inc()
	metrics.GlobalCollector.RecordHandshake(false, time.Since(s.startedAt))
}

// ProcessClientHello verifies the initiator's signature and timestamp
// and records the client id for later confirmation.
func (s *ServerHandshake) ProcessClientHello(clientHello *message.ClientHello, clientDsaPK []byte) error {
	if s.state != StateInitial {
		return newError("process client hello", "cannot process ClientHello in state "+s.state.String())
	}
	metrics.HandshakesInitiated.WithLabelValues("server").Inc()

	now := uint64(time.Now().Unix())
	if absDiff(now, clientHello.Timestamp) > timestampSkewSeconds {
		s.fail("ClientHello timestamp too old/new")
		return newError("process client hello", "invalid timestamp")
	}

	if !ncrypto.VerifyDsa(clientDsaPK, clientHello.SigningData(), clientHello.Signature) {
		s.fail("ClientHello signature verification failed")
		return newError("process client hello", "invalid signature")
	}

	clientID := clientHello.ClientID
	s.clientID = &clientID
	return nil
}

// CreateServerHello encapsulates against the initiator's KEM public
// key, derives the session, and returns a signed ServerHello.
func (s *ServerHandshake) CreateServerHello(clientKemPK []byte, params nsession.Params) (*message.ServerHello, error) {
	if s.state != StateInitial {
		return nil, newError("create server hello", "cannot create ServerHello in state "+s.state.String())
	}

	ciphertext, sharedSecret, err := ncrypto.EncapsulateKem(clientKemPK)
	if err != nil {
		return nil, &Error{Op: "create server hello", Err: err}
	}

	sess, err := nsession.Derive(sharedSecret, s.sessionID, params)
	if err != nil {
		return nil, &Error{Op: "create server hello", Err: err}
	}
	s.session = sess

	timestamp := uint64(time.Now().Unix())
	hello := &message.ServerHello{
		Version:       message.ProtocolVersion,
		SessionID:     s.sessionID,
		KemCiphertext: ciphertext,
		Params:        params,
		Timestamp:     timestamp,
	}
	hello.Signature = s.dsa.Sign(hello.SigningData())

	s.state = StateServerHelloSent
	return hello, nil
}

// ProcessClientConfirm decrypts and validates the initiator's
// confirmation payload against the recorded client and session ids.
func (s *ServerHandshake) ProcessClientConfirm(confirm *message.ClientConfirm) error {
	if s.state != StateServerHelloSent {
		return newError("process client confirm", "cannot process ClientConfirm in state "+s.state.String())
	}
	if s.session == nil {
		return newError("process client confirm", "no session available")
	}

	if confirm.SessionID != s.session.ID() {
		s.fail("Session ID mismatch")
		return newError("process client confirm", "session ID mismatch")
	}
	if len(confirm.EncryptedPayload) < 12 {
		s.fail("Invalid ClientConfirm payload")
		return newError("process client confirm", "payload too short")
	}

	var nonce [12]byte
	copy(nonce[:], confirm.EncryptedPayload[:12])
	ciphertext := confirm.EncryptedPayload[12:]

	plaintext, err := s.session.Decrypt(nonce, ciphertext)
	if err != nil {
		return &Error{Op: "process client confirm", Err: err}
	}

	payload, err := message.DecodeClientConfirmPayload(plaintext)
	if err != nil {
		return &Error{Op: "process client confirm", Err: err}
	}

	if s.clientID == nil {
		return newError("process client confirm", "no client ID stored")
	}
	if payload.ClientID != *s.clientID || payload.SessionID != s.session.ID() {
		s.fail("Invalid ClientConfirm payload")
		return newError("process client confirm", "invalid payload")
	}

	return nil
}

// CreateReady seals a ready confirmation under a fresh random nonce.
func (s *ServerHandshake) CreateReady() (*message.ServerReady, error) {
	if s.state != StateServerHelloSent {
		return nil, newError("create ready", "cannot create ServerReady in state "+s.state.String())
	}
	if s.session == nil {
		return nil, newError("create ready", "no session available")
	}

	payload := &message.ServerReadyPayload{
		SessionID: s.session.ID(),
		Ready:     true,
		Timestamp: uint64(time.Now().Unix()),
	}

	var nonce [12]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, &Error{Op: "create ready", Err: err}
	}
	ciphertext, err := s.session.Encrypt(nonce, payload.Encode())
	if err != nil {
		return nil, &Error{Op: "create ready", Err: err}
	}

	final := make([]byte, 0, 12+len(ciphertext))
	final = append(final, nonce[:]...)
	final = append(final, ciphertext...)

	ready := &message.ServerReady{SessionID: s.session.ID(), EncryptedPayload: final}
	s.state = StateServerReadySent
	return ready, nil
}

// MarkEstablished transitions the machine to StateEstablished after the
// ServerReady message has been sent.
func (s *ServerHandshake) MarkEstablished() error {
	if s.state != StateServerReadySent {
		return newError("mark established", "cannot mark established in state "+s.state.String())
	}
	s.state = StateEstablished
	metrics.HandshakesCompleted.WithLabelValues("success").Inc()
	metrics.GlobalCollector.RecordHandshake(true, time.Since(s.startedAt))
	return nil
}
