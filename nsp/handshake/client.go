package handshake

import (
	"crypto/rand"
	"time"

	"github.com/sage-x-project/nsp-forge/internal/metrics"
	ncrypto "github.com/sage-x-project/nsp-forge/nsp/crypto"
	"github.com/sage-x-project/nsp-forge/nsp/message"
	nsession "github.com/sage-x-project/nsp-forge/nsp/session"
)

// ClientHandshake drives the initiator's side of the handshake:
// create_hello -> process_server_hello -> create_confirm ->
// process_server_ready.
type ClientHandshake struct {
	state      State
	failReason string
	clientID   [32]byte
	kem        *ncrypto.Kem
	dsa        *ncrypto.Dsa
	session    *nsession.Session
	startedAt  time.Time
}

// NewClientHandshake generates a fresh KEM and signing keypair for this
// handshake attempt and returns a machine in StateInitial.
func NewClientHandshake(clientID [32]byte) (*ClientHandshake, error) {
	kem, err := ncrypto.GenerateKem()
	if err != nil {
		return nil, &Error{Op: "new client handshake", Err: err}
	}
	dsa, err := ncrypto.GenerateDsa()
	if err != nil {
		return nil, &Error{Op: "new client handshake", Err: err}
	}
	return &ClientHandshake{state: StateInitial, clientID: clientID, kem: kem, dsa: dsa, startedAt: time.Now()}, nil
}

// State returns the machine's current state.
func (c *ClientHandshake) State() State { return c.state }

// FailReason returns the reason recorded when the state is StateFailed.
func (c *ClientHandshake) FailReason() string { return c.failReason }

// Session returns the established session, or nil before it exists.
func (c *ClientHandshake) Session() *nsession.Session { return c.session }

// DsaPublicKey returns this handshake's signing public key, handed to
// the peer out of band for verification.
func (c *ClientHandshake) DsaPublicKey() ([]byte, error) { return c.dsa.PublicKeyBytes() }

func (c *ClientHandshake) fail(reason string) {
	c.state = StateFailed
	c.failReason = reason
	metrics.HandshakesFailed.WithLabelValues(reason).Inc()
	metrics.GlobalCollector.RecordHandshake(false, time.Since(c.startedAt))
}

// CreateHello builds and signs the ClientHello message.
func (c *ClientHandshake) CreateHello() (*message.ClientHello, error) {
	if c.state != StateInitial {
		return nil, newError("create hello", "cannot create ClientHello in state "+c.state.String())
	}
	metrics.HandshakesInitiated.WithLabelValues("client").Inc()

	kemPK, err := c.kem.PublicKeyBytes()
	if err != nil {
		return nil, &Error{Op: "create hello", Err: err}
	}
	timestamp := uint64(time.Now().Unix())

	hello := &message.ClientHello{
		Version:   message.ProtocolVersion,
		ClientID:  c.clientID,
		KemPK:     kemPK,
		Timestamp: timestamp,
	}
	hello.Signature = c.dsa.Sign(hello.SigningData())

	c.state = StateClientHelloSent
	return hello, nil
}

// ProcessServerHello verifies and consumes the responder's ServerHello,
// deriving the session key from the returned KEM ciphertext.
func (c *ClientHandshake) ProcessServerHello(serverHello *message.ServerHello, serverDsaPK []byte) error {
	if c.state != StateClientHelloSent {
		return newError("process server hello", "cannot process ServerHello in state "+c.state.String())
	}

	now := uint64(time.Now().Unix())
	if absDiff(now, serverHello.Timestamp) > timestampSkewSeconds {
		c.fail("ServerHello timestamp too old/new")
		return newError("process server hello", "invalid timestamp")
	}

	if !ncrypto.VerifyDsa(serverDsaPK, serverHello.SigningData(), serverHello.Signature) {
		c.fail("ServerHello signature verification failed")
		return newError("process server hello", "invalid signature")
	}

	sharedSecret, err := c.kem.Decapsulate(serverHello.KemCiphertext)
	if err != nil {
		return &Error{Op: "process server hello", Err: err}
	}

	sess, err := nsession.Derive(sharedSecret, serverHello.SessionID, serverHello.Params)
	if err != nil {
		return &Error{Op: "process server hello", Err: err}
	}

	c.session = sess
	c.state = StateServerHelloSent
	return nil
}

// CreateConfirm seals a ClientConfirmPayload under a fresh random nonce.
func (c *ClientHandshake) CreateConfirm() (*message.ClientConfirm, error) {
	if c.state != StateServerHelloSent {
		return nil, newError("create confirm", "cannot create ClientConfirm in state "+c.state.String())
	}
	if c.session == nil {
		return nil, newError("create confirm", "no session available")
	}

	payload := &message.ClientConfirmPayload{
		ClientID:  c.clientID,
		SessionID: c.session.ID(),
		Timestamp: uint64(time.Now().Unix()),
	}

	var nonce [12]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, &Error{Op: "create confirm", Err: err}
	}
	ciphertext, err := c.session.Encrypt(nonce, payload.Encode())
	if err != nil {
		return nil, &Error{Op: "create confirm", Err: err}
	}

	final := make([]byte, 0, 12+len(ciphertext))
	final = append(final, nonce[:]...)
	final = append(final, ciphertext...)

	confirm := &message.ClientConfirm{SessionID: c.session.ID(), EncryptedPayload: final}
	c.state = StateClientConfirmSent
	return confirm, nil
}

// ProcessServerReady verifies the responder's readiness confirmation
// and, on success, moves the machine to StateEstablished.
func (c *ClientHandshake) ProcessServerReady(serverReady *message.ServerReady) error {
	if c.state != StateClientConfirmSent {
		return newError("process server ready", "cannot process ServerReady in state "+c.state.String())
	}
	if c.session == nil {
		return newError("process server ready", "no session available")
	}

	if serverReady.SessionID != c.session.ID() {
		c.fail("Session ID mismatch")
		return newError("process server ready", "session ID mismatch")
	}
	if len(serverReady.EncryptedPayload) < 12 {
		c.fail("Invalid ServerReady payload")
		return newError("process server ready", "payload too short")
	}

	var nonce [12]byte
	copy(nonce[:], serverReady.EncryptedPayload[:12])
	ciphertext := serverReady.EncryptedPayload[12:]

	plaintext, err := c.session.Decrypt(nonce, ciphertext)
	if err != nil {
		return &Error{Op: "process server ready", Err: err}
	}

	payload, err := message.DecodeServerReadyPayload(plaintext)
	if err != nil {
		return &Error{Op: "process server ready", Err: err}
	}

	if payload.SessionID != c.session.ID() || !payload.Ready {
		c.fail("Invalid ServerReady payload")
		return newError("process server ready", "invalid payload")
	}

	c.state = StateEstablished
	metrics.HandshakesCompleted.WithLabelValues("success").Inc()
	metrics.GlobalCollector.RecordHandshake(true, time.Since(c.startedAt))
	return nil
}
