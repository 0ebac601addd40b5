// Package message implements the four NSP handshake messages and a
// framed tagged envelope, grounded on the original nsp-core
// messages.rs (field layouts, signing_data projections, and the
// bincode-equivalent length-prefixed structural encoding reproduced
// here by hand since Go has no bincode analogue in this project's
// dependency set).
package message

import (
	"encoding/binary"
	"fmt"
)

// Type tags for the envelope.
const (
	TypeClientHello   byte = 0x01
	TypeServerHello    byte = 0x02
	TypeClientConfirm  byte = 0x03
	TypeServerReady    byte = 0x04
)

// putBytes appends a variable-length byte string as a u64 LE length
// prefix followed by the bytes, the structural encoding used for all
// variable-length fields in this wire format.
func putBytes(buf []byte, b []byte) []byte {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, b...)
	return buf
}

// getBytes reads a length-prefixed byte string, returning the
// remaining buffer.
func getBytes(buf []byte) (value, rest []byte, err error) {
	if len(buf) < 8 {
		return nil, nil, fmt.Errorf("truncated length prefix")
	}
	n := binary.LittleEndian.Uint64(buf[:8])
	buf = buf[8:]
	if uint64(len(buf)) < n {
		return nil, nil, fmt.Errorf("truncated byte string: want %d, have %d", n, len(buf))
	}
	return buf[:n], buf[n:], nil
}

// Envelope frames a payload as [type:1][length:4 BE][payload:N].
func Envelope(typeTag byte, payload []byte) []byte {
	out := make([]byte, 0, 5+len(payload))
	out = append(out, typeTag)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	out = append(out, lenBuf[:]...)
	out = append(out, payload...)
	return out
}

// ParseEnvelope validates and strips the envelope framing, returning
// the type tag and the payload slice. Rejects payloads under 5 bytes
// and a declared length that does not match the bytes actually
// present.
func ParseEnvelope(data []byte) (typeTag byte, payload []byte, err error) {
	if len(data) < 5 {
		return 0, nil, &SerializationError{Op: "parse envelope", Err: fmt.Errorf("message too short: %d bytes", len(data))}
	}
	typeTag = data[0]
	declared := binary.BigEndian.Uint32(data[1:5])
	rest := data[5:]
	if uint64(len(rest)) != uint64(declared) {
		return 0, nil, &SerializationError{Op: "parse envelope", Err: fmt.Errorf(
			"declared length %d does not match payload length %d", declared, len(rest))}
	}
	return typeTag, rest, nil
}
