package spdmcrypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveSessionKeys fills out with key material derived from ikm via
// HKDF-SHA256 (RFC 5869), binding the derivation to info. out's length
// determines how many bytes are produced.
//
// Session establishment itself is a reserved phase (see the Phase
// state graph); nothing in the engine calls this function yet.
func DeriveSessionKeys(ikm, salt, info, out []byte) error {
	reader := hkdf.New(sha256.New, ikm, salt, info)
	_, err := io.ReadFull(reader, out)
	return err
}
