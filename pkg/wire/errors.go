// Package wire implements bounded, allocation-free encoding and decoding
// over caller-owned byte slices for the SPDM binary wire format.
package wire

import "errors"

// Codec errors.
var (
	// ErrInsufficientSpace is returned when a Writer has no room left for
	// the requested write. The destination buffer's length is unchanged.
	ErrInsufficientSpace = errors.New("wire: insufficient space in output buffer")

	// ErrTruncated is returned when a Reader runs out of input bytes
	// before a field is fully read.
	ErrTruncated = errors.New("wire: input truncated")

	// ErrUnexpectedValue is returned when a decoded field has a value
	// the format does not allow (e.g. a length prefix exceeding a
	// caller-imposed maximum).
	ErrUnexpectedValue = errors.New("wire: unexpected value")
)
