package secure

import (
	"bytes"
	"testing"

	"github.com/sage-x-project/nsp-forge/nsp/session"
)

func TestSecureCompileWorkflow(t *testing.T) {
	sharedSecret := bytes.Repeat([]byte{0x42}, 32)
	var sessionID [32]byte
	for i := range sessionID {
		sessionID[i] = 0x55
	}
	sess, err := session.Derive(sharedSecret, sessionID, session.DefaultParams())
	if err != nil {
		t.Fatalf("session derive failed: %v", err)
	}
	defer sess.Close()

	source := `stave dashboard {
		heading(1) "Secure Implant Data"
	}`
	var nonce [12]byte
	for i := range nonce {
		nonce[i] = 0x99
	}

	encrypted, result, err := CompileAndEncrypt(sess, source, nonce)
	if err != nil {
		t.Fatalf("compile and encrypt failed: %v", err)
	}
	if len(encrypted) == 0 {
		t.Fatal("expected nonempty ciphertext")
	}
	if len(result.StaveNames) != 1 || result.StaveNames[0] != "dashboard" {
		t.Errorf("stave names = %v", result.StaveNames)
	}

	decrypted, err := sess.Decrypt(nonce, encrypted)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, result.Bytecode) {
		t.Error("decrypted bytecode does not match the compiled bytecode")
	}
	if string(decrypted[0:4]) != "STV1" {
		t.Errorf("decrypted magic = %q", decrypted[0:4])
	}
}

func TestEncryptBytecode(t *testing.T) {
	sharedSecret := bytes.Repeat([]byte{0x11}, 32)
	var sessionID [32]byte
	for i := range sessionID {
		sessionID[i] = 0x22
	}
	sess, err := session.Derive(sharedSecret, sessionID, session.DefaultParams())
	if err != nil {
		t.Fatalf("session derive failed: %v", err)
	}
	defer sess.Close()

	bytecode := []byte("STV1\x01\x00fake-bytecode")
	var nonce [12]byte
	for i := range nonce {
		nonce[i] = 0x33
	}

	encrypted, err := EncryptBytecode(sess, bytecode, nonce)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	decrypted, err := sess.Decrypt(nonce, encrypted)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, bytecode) {
		t.Error("decrypted bytecode does not match original")
	}
}
