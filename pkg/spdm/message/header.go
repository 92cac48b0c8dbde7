// Package message implements the wire encoding for every SPDM request
// and response body, one file per message pair, built on pkg/wire's
// bounded codec.
package message

import (
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// Header is the two-byte prefix shared by every SPDM message: the
// negotiated version packed into a single byte (major in the high
// nibble, minor in the low nibble) and the request/response code. The
// two bytes that follow on the wire, Param1 and Param2, are
// message-specific and encoded by each concrete message type.
type Header struct {
	Version spdm.Version
	Code    spdm.Code
}

// Encode writes the two header bytes to w.
func (h Header) Encode(w *wire.Writer) error {
	if err := w.PutUint8(versionByte(h.Version)); err != nil {
		return err
	}
	return w.PutUint8(uint8(h.Code))
}

// DecodeHeader reads and consumes the two header bytes from r, leaving
// r positioned at Param1; callers use the result to decide which
// concrete Decode function to invoke next.
func DecodeHeader(r *wire.Reader) (Header, error) {
	vb, err := r.Uint8()
	if err != nil {
		return Header{}, err
	}
	cb, err := r.Uint8()
	if err != nil {
		return Header{}, err
	}
	return Header{Version: versionFromByte(vb), Code: spdm.Code(cb)}, nil
}

func versionByte(v spdm.Version) uint8 {
	return (v.Major << 4) | (v.Minor & 0x0F)
}

func versionFromByte(b uint8) spdm.Version {
	return spdm.Version{Major: b >> 4, Minor: b & 0x0F}
}
