package wire

import "encoding/binary"

// Reader decodes SPDM wire values from a caller-owned byte slice.
// A Reader never allocates for fixed-size reads; variable-length reads
// return sub-slices that alias the input rather than copies, so callers
// that need to retain the bytes past the input buffer's lifetime (for
// example to append them to a transcript) must copy them out
// themselves.
type Reader struct {
	buf    []byte
	cursor int
}

// NewReader binds a Reader to in. Decoding starts at offset 0.
func NewReader(in []byte) *Reader {
	return &Reader{buf: in}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.cursor
}

// Position returns the current read offset.
func (r *Reader) Position() int {
	return r.cursor
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, ErrTruncated
	}
	start := r.cursor
	r.cursor += n
	return r.buf[start:r.cursor], nil
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a little-endian 16-bit value.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 reads a little-endian 32-bit value.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 reads a little-endian 64-bit value.
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Skip discards n bytes without inspecting them (used for reserved
// fields).
func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// BytesFixed returns the next n bytes as-is (aliasing the input).
func (r *Reader) BytesFixed(n int) ([]byte, error) {
	return r.take(n)
}

// BytesVar reads a u16 length prefix followed by that many bytes. If
// the declared length exceeds maxLen, it fails with ErrUnexpectedValue
// without consuming the payload bytes (only the length prefix is
// consumed), so callers can surface a precise resource error (e.g.
// CertTooLarge) rather than a generic truncation.
func (r *Reader) BytesVar(maxLen int) ([]byte, error) {
	n, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if int(n) > maxLen {
		return nil, ErrUnexpectedValue
	}
	return r.take(int(n))
}

// PeekUint8 reads a byte without advancing the cursor.
func (r *Reader) PeekUint8(offset int) (uint8, error) {
	if r.Remaining() <= offset {
		return 0, ErrTruncated
	}
	return r.buf[r.cursor+offset], nil
}
