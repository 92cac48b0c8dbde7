package message

import (
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// MaxVersionEntries bounds the version list carried by a Version
// response; the engine never negotiates more versions than it itself
// supports at build time.
const MaxVersionEntries = 8

// GetVersionRequest carries no body; Param1 and Param2 are reserved.
type GetVersionRequest struct{}

func (GetVersionRequest) Code() spdm.Code { return spdm.CodeGetVersion }

// Encode writes the header and reserved Param1/Param2 bytes. version
// is whatever placeholder the caller uses before negotiation
// completes; GET_VERSION is the one message exchanged outside the
// negotiated-version invariant.
func (GetVersionRequest) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeGetVersion}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

// DecodeGetVersionRequest reads the reserved Param1/Param2 bytes and
// discards them. The caller has already consumed the shared header.
func DecodeGetVersionRequest(r *wire.Reader) (GetVersionRequest, error) {
	if err := r.Skip(2); err != nil {
		return GetVersionRequest{}, err
	}
	return GetVersionRequest{}, nil
}

// VersionResponse lists every version the responder supports, most
// commonly in descending order though the codec does not require it.
type VersionResponse struct {
	Versions []spdm.Version
}

func (VersionResponse) Code() spdm.Code { return spdm.CodeVersion }

func (m VersionResponse) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeVersion}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil { // Param1, Param2
		return nil, err
	}
	if err := w.PutReserved(1); err != nil { // reserved byte before the count
		return nil, err
	}
	if len(m.Versions) > MaxVersionEntries {
		return nil, wire.ErrUnexpectedValue
	}
	if err := w.PutUint8(uint8(len(m.Versions))); err != nil {
		return nil, err
	}
	for _, v := range m.Versions {
		if err := w.PutUint8(v.Major); err != nil {
			return nil, err
		}
		if err := w.PutUint8(v.Minor); err != nil {
			return nil, err
		}
	}
	return w.Written()[start:], nil
}

// DecodeVersionResponse reads a VersionResponse body. The caller has
// already consumed the shared header.
func DecodeVersionResponse(r *wire.Reader) (*VersionResponse, error) {
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	count, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if int(count) > MaxVersionEntries {
		return nil, wire.ErrUnexpectedValue
	}
	versions := make([]spdm.Version, count)
	for i := range versions {
		major, err := r.Uint8()
		if err != nil {
			return nil, err
		}
		minor, err := r.Uint8()
		if err != nil {
			return nil, err
		}
		versions[i] = spdm.Version{Major: major, Minor: minor}
	}
	return &VersionResponse{Versions: versions}, nil
}
