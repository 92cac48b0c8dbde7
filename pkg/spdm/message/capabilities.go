package message

import (
	"github.com/spdm-embedded/spdm-go/pkg/config"
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// GetCapabilitiesRequest carries the requester's locally enabled
// capability flags.
type GetCapabilitiesRequest struct {
	CTExponent   uint8
	Capabilities config.Capabilities
}

func (GetCapabilitiesRequest) Code() spdm.Code { return spdm.CodeGetCapabilities }

func (m GetCapabilitiesRequest) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeGetCapabilities}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil { // Param1, Param2
		return nil, err
	}
	if err := w.PutReserved(1); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.CTExponent); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil {
		return nil, err
	}
	if err := w.PutUint32(uint32(m.Capabilities)); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

func DecodeGetCapabilitiesRequest(r *wire.Reader) (*GetCapabilitiesRequest, error) {
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	ct, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	caps, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	return &GetCapabilitiesRequest{CTExponent: ct, Capabilities: config.Capabilities(caps)}, nil
}

// CapabilitiesResponse carries the responder's locally enabled
// capability flags, mirroring GetCapabilitiesRequest's body.
type CapabilitiesResponse struct {
	CTExponent   uint8
	Capabilities config.Capabilities
}

func (CapabilitiesResponse) Code() spdm.Code { return spdm.CodeCapabilities }

func (m CapabilitiesResponse) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeCapabilities}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil {
		return nil, err
	}
	if err := w.PutReserved(1); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.CTExponent); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil {
		return nil, err
	}
	if err := w.PutUint32(uint32(m.Capabilities)); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

func DecodeCapabilitiesResponse(r *wire.Reader) (*CapabilitiesResponse, error) {
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	ct, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	caps, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	return &CapabilitiesResponse{CTExponent: ct, Capabilities: config.Capabilities(caps)}, nil
}
