package message

import (
	"encoding/binary"
	"fmt"

	"github.com/sage-x-project/nsp-forge/nsp/session"
)

// ProtocolVersion is the sole supported wire version.
const ProtocolVersion byte = 0x01

// ClientHello is the initiator's first message.
type ClientHello struct {
	Version   byte
	ClientID  [32]byte
	KemPK     []byte
	Timestamp uint64
	Signature []byte
}

// SigningData returns the canonical bytes signed for this message:
// version ‖ client_id ‖ kem_pk ‖ timestamp_BE, with the signature
// itself omitted.
func (m *ClientHello) SigningData() []byte {
	buf := make([]byte, 0, 1+32+len(m.KemPK)+8)
	buf = append(buf, m.Version)
	buf = append(buf, m.ClientID[:]...)
	buf = append(buf, m.KemPK...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], m.Timestamp)
	buf = append(buf, ts[:]...)
	return buf
}

// Encode serializes the full message including its signature.
func (m *ClientHello) Encode() []byte {
	buf := make([]byte, 0, 64+len(m.KemPK)+len(m.Signature))
	buf = append(buf, m.Version)
	buf = append(buf, m.ClientID[:]...)
	buf = putBytes(buf, m.KemPK)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], m.Timestamp)
	buf = append(buf, ts[:]...)
	buf = putBytes(buf, m.Signature)
	return buf
}

// DecodeClientHello parses a ClientHello payload.
func DecodeClientHello(payload []byte) (*ClientHello, error) {
	if len(payload) < 1+32 {
		return nil, &SerializationError{Op: "decode ClientHello", Err: fmt.Errorf("payload too short")}
	}
	m := &ClientHello{Version: payload[0]}
	copy(m.ClientID[:], payload[1:33])
	rest := payload[33:]

	kemPK, rest, err := getBytes(rest)
	if err != nil {
		return nil, &SerializationError{Op: "decode ClientHello", Err: err}
	}
	m.KemPK = append([]byte(nil), kemPK...)

	if len(rest) < 8 {
		return nil, &SerializationError{Op: "decode ClientHello", Err: fmt.Errorf("truncated timestamp")}
	}
	m.Timestamp = binary.BigEndian.Uint64(rest[:8])
	rest = rest[8:]

	sig, rest, err := getBytes(rest)
	if err != nil {
		return nil, &SerializationError{Op: "decode ClientHello", Err: err}
	}
	m.Signature = append([]byte(nil), sig...)
	_ = rest

	return m, nil
}

// ServerHello is the responder's first message.
type ServerHello struct {
	Version       byte
	SessionID     [32]byte
	KemCiphertext []byte
	Params        session.Params
	Timestamp     uint64
	Signature     []byte
}

// SigningData returns the canonical signed bytes: version ‖
// session_id ‖ kem_ct ‖ max_frame_size_BE ‖ timeout_BE ‖
// cipher_suite ‖ timestamp_BE.
func (m *ServerHello) SigningData() []byte {
	buf := make([]byte, 0, 1+32+len(m.KemCiphertext)+4+4+1+8)
	buf = append(buf, m.Version)
	buf = append(buf, m.SessionID[:]...)
	buf = append(buf, m.KemCiphertext...)
	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], m.Params.MaxFrameSize)
	buf = append(buf, u32[:]...)
	binary.BigEndian.PutUint32(u32[:], m.Params.TimeoutSeconds)
	buf = append(buf, u32[:]...)
	buf = append(buf, m.Params.CipherSuite)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], m.Timestamp)
	buf = append(buf, ts[:]...)
	return buf
}

// Encode serializes the full message including its signature.
func (m *ServerHello) Encode() []byte {
	buf := make([]byte, 0, 64+len(m.KemCiphertext)+len(m.Signature))
	buf = append(buf, m.Version)
	buf = append(buf, m.SessionID[:]...)
	buf = putBytes(buf, m.KemCiphertext)
	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], m.Params.MaxFrameSize)
	buf = append(buf, u32[:]...)
	binary.BigEndian.PutUint32(u32[:], m.Params.TimeoutSeconds)
	buf = append(buf, u32[:]...)
	buf = append(buf, m.Params.CipherSuite)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], m.Timestamp)
	buf = append(buf, ts[:]...)
	buf = putBytes(buf, m.Signature)
	return buf
}

// DecodeServerHello parses a ServerHello payload.
func DecodeServerHello(payload []byte) (*ServerHello, error) {
	if len(payload) < 1+32 {
		return nil, &SerializationError{Op: "decode ServerHello", Err: fmt.Errorf("payload too short")}
	}
	m := &ServerHello{Version: payload[0]}
	copy(m.SessionID[:], payload[1:33])
	rest := payload[33:]

	ct, rest, err := getBytes(rest)
	if err != nil {
		return nil, &SerializationError{Op: "decode ServerHello", Err: err}
	}
	m.KemCiphertext = append([]byte(nil), ct...)

	if len(rest) < 4+4+1+8 {
		return nil, &SerializationError{Op: "decode ServerHello", Err: fmt.Errorf("truncated session params")}
	}
	m.Params.MaxFrameSize = binary.BigEndian.Uint32(rest[0:4])
	m.Params.TimeoutSeconds = binary.BigEndian.Uint32(rest[4:8])
	m.Params.CipherSuite = rest[8]
	m.Timestamp = binary.BigEndian.Uint64(rest[9:17])
	rest = rest[17:]

	sig, rest, err := getBytes(rest)
	if err != nil {
		return nil, &SerializationError{Op: "decode ServerHello", Err: err}
	}
	m.Signature = append([]byte(nil), sig...)
	_ = rest

	return m, nil
}

// ClientConfirm carries the client's encrypted confirmation.
// EncryptedPayload = 12-byte nonce ‖ AEAD output.
type ClientConfirm struct {
	SessionID        [32]byte
	EncryptedPayload []byte
}

func (m *ClientConfirm) Encode() []byte {
	buf := make([]byte, 0, 32+8+len(m.EncryptedPayload))
	buf = append(buf, m.SessionID[:]...)
	buf = putBytes(buf, m.EncryptedPayload)
	return buf
}

func DecodeClientConfirm(payload []byte) (*ClientConfirm, error) {
	if len(payload) < 32 {
		return nil, &SerializationError{Op: "decode ClientConfirm", Err: fmt.Errorf("payload too short")}
	}
	m := &ClientConfirm{}
	copy(m.SessionID[:], payload[:32])
	ep, _, err := getBytes(payload[32:])
	if err != nil {
		return nil, &SerializationError{Op: "decode ClientConfirm", Err: err}
	}
	m.EncryptedPayload = append([]byte(nil), ep...)
	return m, nil
}

// ServerReady carries the server's encrypted readiness confirmation.
type ServerReady struct {
	SessionID        [32]byte
	EncryptedPayload []byte
}

func (m *ServerReady) Encode() []byte {
	buf := make([]byte, 0, 32+8+len(m.EncryptedPayload))
	buf = append(buf, m.SessionID[:]...)
	buf = putBytes(buf, m.EncryptedPayload)
	return buf
}

func DecodeServerReady(payload []byte) (*ServerReady, error) {
	if len(payload) < 32 {
		return nil, &SerializationError{Op: "decode ServerReady", Err: fmt.Errorf("payload too short")}
	}
	m := &ServerReady{}
	copy(m.SessionID[:], payload[:32])
	ep, _, err := getBytes(payload[32:])
	if err != nil {
		return nil, &SerializationError{Op: "decode ServerReady", Err: err}
	}
	m.EncryptedPayload = append([]byte(nil), ep...)
	return m, nil
}

// ClientConfirmPayload is the plaintext sealed inside ClientConfirm.
type ClientConfirmPayload struct {
	ClientID  [32]byte
	SessionID [32]byte
	Timestamp uint64
}

func (p *ClientConfirmPayload) Encode() []byte {
	buf := make([]byte, 0, 72)
	buf = append(buf, p.ClientID[:]...)
	buf = append(buf, p.SessionID[:]...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], p.Timestamp)
	buf = append(buf, ts[:]...)
	return buf
}

func DecodeClientConfirmPayload(data []byte) (*ClientConfirmPayload, error) {
	if len(data) < 72 {
		return nil, &SerializationError{Op: "decode ClientConfirmPayload", Err: fmt.Errorf("payload too short")}
	}
	p := &ClientConfirmPayload{}
	copy(p.ClientID[:], data[0:32])
	copy(p.SessionID[:], data[32:64])
	p.Timestamp = binary.BigEndian.Uint64(data[64:72])
	return p, nil
}

// ServerReadyPayload is the plaintext sealed inside ServerReady.
type ServerReadyPayload struct {
	SessionID [32]byte
	Ready     bool
	Timestamp uint64
}

func (p *ServerReadyPayload) Encode() []byte {
	buf := make([]byte, 0, 41)
	buf = append(buf, p.SessionID[:]...)
	if p.Ready {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], p.Timestamp)
	buf = append(buf, ts[:]...)
	return buf
}

func DecodeServerReadyPayload(data []byte) (*ServerReadyPayload, error) {
	if len(data) < 41 {
		return nil, &SerializationError{Op: "decode ServerReadyPayload", Err: fmt.Errorf("payload too short")}
	}
	p := &ServerReadyPayload{}
	copy(p.SessionID[:], data[0:32])
	p.Ready = data[32] != 0
	p.Timestamp = binary.BigEndian.Uint64(data[33:41])
	return p, nil
}
