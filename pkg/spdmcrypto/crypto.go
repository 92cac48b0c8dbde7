// Package spdmcrypto defines the synchronous trait surface the engine
// calls out to for hashing, signing, verification, and randomness. The
// reference subpackage supplies a concrete implementation over P-256
// and SHA-256; integrators targeting other algorithms implement these
// interfaces directly against their own crypto stack (a hardware
// engine, an HSM, a different curve).
package spdmcrypto

// DigestState is an incremental hash computation. Callers Write bytes
// as they become available and call Sum once to finalize.
type DigestState interface {
	Write(p []byte) (int, error)

	// Sum appends the finalized digest to out and returns the
	// resulting slice, mirroring hash.Hash.Sum. It must not be called
	// more than once on the same state.
	Sum(out []byte) []byte
}

// Digest identifies a hash algorithm and constructs fresh incremental
// states for it.
type Digest interface {
	// Size returns the digest's output length in bytes.
	Size() int

	// New returns a fresh DigestState for this algorithm.
	New() DigestState
}

// Signer produces a signature over a digest that has already been
// computed by the caller (the engine always signs transcript hashes,
// never raw messages).
type Signer interface {
	// Sign writes the signature for digest into out and returns the
	// written sub-slice. out must be at least as large as the
	// signature's encoded size.
	Sign(digest []byte, out []byte) ([]byte, error)
}

// Verifier checks a signature over a digest against a public key taken
// from a certificate's SubjectPublicKeyInfo.
type Verifier interface {
	Verify(digest []byte, sig []byte, publicKey []byte) error
}

// Random supplies cryptographically secure random bytes, used for
// nonce generation. The engine never seeds or reuses a nonce; it reads
// exactly as many bytes as it needs per call.
type Random interface {
	Read(p []byte) error
}
