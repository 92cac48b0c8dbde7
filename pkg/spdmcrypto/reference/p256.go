package reference

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/spdm-embedded/spdm-go/pkg/spdmcrypto"
)

// P-256 field sizes, matching the encoding SPDM expects for its
// ECDSA asymmetric-signing algorithm.
const (
	P256GroupSizeBytes     = 32
	P256PublicKeySizeBytes = 65 // 0x04 || X || Y
	P256SignatureSizeBytes = 64 // r || s, each zero-padded to 32 bytes
)

var (
	// ErrInvalidPublicKey is returned when a public key is malformed or
	// does not lie on the P-256 curve.
	ErrInvalidPublicKey = errors.New("reference: invalid P-256 public key")

	// ErrBufferTooSmall is returned when a caller-supplied output
	// buffer cannot hold the result.
	ErrBufferTooSmall = errors.New("reference: output buffer too small")
)

// P256KeyPair is an ECDSA P-256 key pair used by the loopback demo and
// tests to sign challenge transcripts.
type P256KeyPair struct {
	priv *ecdsa.PrivateKey
}

// GenerateP256KeyPair generates a fresh P-256 key pair.
func GenerateP256KeyPair() (*P256KeyPair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &P256KeyPair{priv: priv}, nil
}

// PublicKey returns the uncompressed public key (0x04 || X || Y).
func (kp *P256KeyPair) PublicKey() []byte {
	out := make([]byte, P256PublicKeySizeBytes)
	out[0] = 0x04
	xBytes := kp.priv.X.Bytes()
	yBytes := kp.priv.Y.Bytes()
	copy(out[1+P256GroupSizeBytes-len(xBytes):1+P256GroupSizeBytes], xBytes)
	copy(out[1+2*P256GroupSizeBytes-len(yBytes):], yBytes)
	return out
}

// P256Signer implements spdmcrypto.Signer over a key pair's private
// key. It signs pre-computed digests only; it never hashes a message
// itself, since the engine always signs a transcript hash.
type P256Signer struct {
	KeyPair *P256KeyPair
}

// Sign writes a 64-byte r||s signature over digest into out.
func (s P256Signer) Sign(digest []byte, out []byte) ([]byte, error) {
	if len(out) < P256SignatureSizeBytes {
		return nil, ErrBufferTooSmall
	}
	r, sVal, err := ecdsa.Sign(rand.Reader, s.KeyPair.priv, digest)
	if err != nil {
		return nil, err
	}
	dst := out[:P256SignatureSizeBytes]
	for i := range dst {
		dst[i] = 0
	}
	rBytes := r.Bytes()
	sBytes := sVal.Bytes()
	copy(dst[P256GroupSizeBytes-len(rBytes):P256GroupSizeBytes], rBytes)
	copy(dst[P256SignatureSizeBytes-len(sBytes):], sBytes)
	return dst, nil
}

// P256Verifier implements spdmcrypto.Verifier for P-256/ECDSA with
// caller-supplied SubjectPublicKeyInfo-derived public keys.
type P256Verifier struct{}

// Verify checks an r||s signature over digest against publicKey (the
// 65-byte uncompressed encoding).
func (P256Verifier) Verify(digest, sig, publicKey []byte) error {
	pub, err := parsePublicKey(publicKey)
	if err != nil {
		return err
	}
	if len(sig) != P256SignatureSizeBytes {
		return spdmcrypto.ErrSignatureInvalid
	}
	r := new(big.Int).SetBytes(sig[:P256GroupSizeBytes])
	s := new(big.Int).SetBytes(sig[P256GroupSizeBytes:])
	if !ecdsa.Verify(pub, digest, r, s) {
		return spdmcrypto.ErrSignatureInvalid
	}
	return nil
}

func parsePublicKey(publicKey []byte) (*ecdsa.PublicKey, error) {
	if len(publicKey) != P256PublicKeySizeBytes || publicKey[0] != 0x04 {
		return nil, ErrInvalidPublicKey
	}
	x := new(big.Int).SetBytes(publicKey[1:33])
	y := new(big.Int).SetBytes(publicKey[33:65])
	if !elliptic.P256().IsOnCurve(x, y) {
		return nil, ErrInvalidPublicKey
	}
	return &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}, nil
}
