package message

import (
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// ErrorResponse is the responder's uniform reply to a protocol
// violation it has a defined reply for. The responder sends one for a
// message unexpected in the current phase, for an algorithm mismatch,
// and for a request naming a slot with no certificate chain; a
// malformed request gets no reply.
type ErrorResponse struct {
	ErrorCode         spdm.ErrorCode
	ErrorData         uint8
	ExtendedErrorData []byte
}

func (ErrorResponse) Code() spdm.Code { return spdm.CodeError }

func (m ErrorResponse) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeError}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutUint8(uint8(m.ErrorCode)); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.ErrorData); err != nil {
		return nil, err
	}
	if err := w.PutBytesVar(m.ExtendedErrorData); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

// DecodeErrorResponse reads an ErrorResponse body. maxExtended bounds
// the variable-length extended error data field.
func DecodeErrorResponse(r *wire.Reader, maxExtended int) (*ErrorResponse, error) {
	code, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	data, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	extended, err := r.BytesVar(maxExtended)
	if err != nil {
		return nil, err
	}
	return &ErrorResponse{ErrorCode: spdm.ErrorCode(code), ErrorData: data, ExtendedErrorData: extended}, nil
}
