package requester

import (
	"github.com/spdm-embedded/spdm-go/pkg/spdmcrypto"
)

// certRecordSize is the size of one chain entry in the reference
// chain encoding: a 65-byte uncompressed P-256 public key followed by
// the 64-byte signature over it from the next certificate up the
// chain (or from the root, for the chain's first entry).
const certRecordSize = 65 + 64

// validateChain walks chain from the entry closest to the trusted
// root to the leaf, verifying each entry's signature against the
// previous entry's public key (or rootPubKey for the first entry). It
// returns the leaf's public key on success.
//
// This mirrors the teacher's NOC -> ICAC -> RCAC linear signature
// chase, generalized from a fixed two-level chain to an arbitrary
// depth bounded by maxDepth.
func validateChain(chain, rootPubKey []byte, d spdmcrypto.Digest, v spdmcrypto.Verifier, maxDepth int) ([]byte, error) {
	if len(chain) == 0 || len(chain)%certRecordSize != 0 {
		return nil, spdmcrypto.ErrChainInvalid
	}
	depth := len(chain) / certRecordSize
	if depth > maxDepth {
		return nil, spdmcrypto.ErrChainInvalid
	}

	signer := rootPubKey
	var leafKey []byte
	digestBuf := make([]byte, d.Size())
	for i := 0; i < depth; i++ {
		rec := chain[i*certRecordSize : (i+1)*certRecordSize]
		pub := rec[:65]
		sig := rec[65:]

		state := d.New()
		if _, err := state.Write(pub); err != nil {
			return nil, err
		}
		sum := state.Sum(digestBuf[:0])

		if err := v.Verify(sum, sig, signer); err != nil {
			return nil, spdmcrypto.ErrChainInvalid
		}
		signer = pub
		leafKey = pub
	}
	return leafKey, nil
}
