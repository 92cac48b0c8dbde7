package spdmcrypto

import "errors"

// Crypto errors. The engine never attempts to recover from these; it
// surfaces them and drives the owning endpoint to a terminal state.
var (
	ErrSignatureInvalid = errors.New("spdmcrypto: signature verification failed")
	ErrChainInvalid     = errors.New("spdmcrypto: certificate chain validation failed")
	ErrDigestMismatch   = errors.New("spdmcrypto: digest mismatch")

	// ErrCryptoFailure wraps an opaque provider-reported failure. Use
	// errors.Is against this sentinel; the provider kind is carried in
	// the error text via fmt.Errorf("%w: %s", ErrCryptoFailure, kind).
	ErrCryptoFailure = errors.New("spdmcrypto: provider failure")
)
