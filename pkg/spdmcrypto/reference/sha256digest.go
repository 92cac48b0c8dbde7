// Package reference implements spdmcrypto's Digest, Signer, Verifier
// and Random interfaces over the standard library's crypto/sha256,
// crypto/ecdsa, and crypto/rand. It is the provider the loopback demo
// and integration tests wire up; a real embedded integrator is
// expected to supply its own provider, typically backed by a hardware
// crypto engine, in its place.
package reference

import (
	"crypto/sha256"
	"hash"

	"github.com/spdm-embedded/spdm-go/pkg/spdmcrypto"
)

// SHA256 is a spdmcrypto.Digest backed by crypto/sha256.
type SHA256 struct{}

// Size implements spdmcrypto.Digest.
func (SHA256) Size() int { return sha256.Size }

// New implements spdmcrypto.Digest.
func (SHA256) New() spdmcrypto.DigestState {
	return sha256State{h: sha256.New()}
}

type sha256State struct {
	h hash.Hash
}

func (s sha256State) Write(p []byte) (int, error) {
	return s.h.Write(p)
}

func (s sha256State) Sum(out []byte) []byte {
	return s.h.Sum(out)
}
