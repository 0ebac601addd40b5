// Package secure binds the Staves compiler to an established NSP
// session, grounded on the original runemate-forge secure.rs: compile
// then seal bytecode under the session's AEAD key, or seal
// already-compiled bytecode directly.
package secure

import (
	"fmt"

	"github.com/sage-x-project/nsp-forge/forge"
	"github.com/sage-x-project/nsp-forge/forge/ferrors"
	"github.com/sage-x-project/nsp-forge/nsp/session"
)

// CompileAndEncrypt compiles Staves source and seals the resulting
// bytecode for delivery over an established NSP session.
func CompileAndEncrypt(sess *session.Session, source string, nonce [12]byte) ([]byte, *forge.CompileResult, error) {
	result, err := forge.Compile(source)
	if err != nil {
		return nil, nil, err
	}

	encrypted, err := sess.Encrypt(nonce, result.Bytecode)
	if err != nil {
		return nil, nil, &ferrors.CodegenError{Message: fmt.Sprintf("encryption failed: %v", err)}
	}

	return encrypted, result, nil
}

// EncryptBytecode seals already-compiled bytecode for delivery over an
// established NSP session.
func EncryptBytecode(sess *session.Session, bytecode []byte, nonce [12]byte) ([]byte, error) {
	encrypted, err := sess.Encrypt(nonce, bytecode)
	if err != nil {
		return nil, &ferrors.CodegenError{Message: fmt.Sprintf("encryption failed: %v", err)}
	}
	return encrypted, nil
}
