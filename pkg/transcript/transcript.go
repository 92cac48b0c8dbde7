// Package transcript implements the append-only byte accumulator that
// binds later signatures and session-key derivations to everything
// negotiated before them.
package transcript

import "github.com/spdm-embedded/spdm-go/pkg/spdmcrypto"

// Buffer accumulates, in canonical wire order, the exact octets of
// every message the protocol says contributes to a signature's or
// session key's binding. It never grows its backing array: once full,
// further appends fail with ErrOverflow rather than reallocating.
type Buffer struct {
	buf []byte
	len int
}

// New binds a Buffer to backing. The buffer starts empty; backing's
// full length is the buffer's capacity.
func New(backing []byte) *Buffer {
	return &Buffer{buf: backing}
}

// Append copies p to the end of the transcript. Once a byte is
// appended it is never rewritten; a failed Append leaves the
// transcript's existing content and length unchanged.
func (b *Buffer) Append(p []byte) error {
	if len(b.buf)-b.len < len(p) {
		return ErrOverflow
	}
	copy(b.buf[b.len:], p)
	b.len += len(p)
	return nil
}

// Len returns the number of bytes accumulated so far.
func (b *Buffer) Len() int {
	return b.len
}

// Cap returns the transcript's total capacity.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Bytes returns the accumulated content. The returned slice aliases
// the buffer's backing array and is only valid until the next Append
// or Reset.
func (b *Buffer) Bytes() []byte {
	return b.buf[:b.len]
}

// Reset empties the transcript without releasing its backing array,
// so a single allocation can be reused across endpoint constructions
// in a test harness.
func (b *Buffer) Reset() {
	b.len = 0
}

// Hash computes the digest of the accumulated transcript under d,
// writing into out. out must be at least d.Size() bytes; the returned
// slice is out[:d.Size()].
func (b *Buffer) Hash(d spdmcrypto.Digest, out []byte) ([]byte, error) {
	if len(out) < d.Size() {
		return nil, ErrOutputTooSmall
	}
	state := d.New()
	if _, err := state.Write(b.Bytes()); err != nil {
		return nil, err
	}
	sum := state.Sum(out[:0])
	return sum, nil
}
