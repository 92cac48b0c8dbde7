package spdm

import "github.com/spdm-embedded/spdm-go/pkg/spdmcrypto"

// NonceSize is the fixed length of an SPDM nonce.
const NonceSize = 32

// Nonce is a 32-byte value drawn fresh per challenge and per
// key-exchange. Endpoints never reuse a nonce within a session.
type Nonce [NonceSize]byte

// NewNonce draws a fresh nonce from rnd.
func NewNonce(rnd spdmcrypto.Random) (Nonce, error) {
	var n Nonce
	if err := rnd.Read(n[:]); err != nil {
		return Nonce{}, err
	}
	return n, nil
}
