package message

import (
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// MaxSlotsWire bounds the slot-mask fields on the wire; it matches
// config.MaxSlotsCeiling but is kept local to avoid a codec-level
// dependency on the config package's numeric ceiling constant.
const MaxSlotsWire = 8

// GetDigestsRequest carries no body.
type GetDigestsRequest struct{}

func (GetDigestsRequest) Code() spdm.Code { return spdm.CodeGetDigests }

func (GetDigestsRequest) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeGetDigests}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

func DecodeGetDigestsRequest(r *wire.Reader) (GetDigestsRequest, error) {
	if err := r.Skip(2); err != nil {
		return GetDigestsRequest{}, err
	}
	return GetDigestsRequest{}, nil
}

// DigestsResponse carries one digest per occupied slot, in ascending
// slot-index order. SlotMask has one bit set per digest present.
type DigestsResponse struct {
	SlotMask uint8
	Digests  [][]byte
}

func (DigestsResponse) Code() spdm.Code { return spdm.CodeDigests }

func (m DigestsResponse) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeDigests}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.SlotMask); err != nil { // Param1
		return nil, err
	}
	if err := w.PutReserved(1); err != nil { // Param2
		return nil, err
	}
	for _, d := range m.Digests {
		if err := w.PutBytesFixed(d); err != nil {
			return nil, err
		}
	}
	return w.Written()[start:], nil
}

// DecodeDigestsResponse reads a DigestsResponse body. digestSize is
// the negotiated hash algorithm's output length, needed because each
// digest field has no length prefix of its own.
func DecodeDigestsResponse(r *wire.Reader, digestSize int) (*DigestsResponse, error) {
	slotMask, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	var digests [][]byte
	for i := 0; i < MaxSlotsWire; i++ {
		if slotMask&(1<<uint(i)) == 0 {
			continue
		}
		d, err := r.BytesFixed(digestSize)
		if err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}
	return &DigestsResponse{SlotMask: slotMask, Digests: digests}, nil
}
