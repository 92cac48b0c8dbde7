package message

import (
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// PskFinishRequest closes the PSK key-exchange handshake with verify
// data over the transcript so far. The requester fills it with a plain
// transcript hash, not a keyed MAC, so it does not prove possession of
// the pre-shared key.
type PskFinishRequest struct {
	RequesterVerifyData []byte
}

func (PskFinishRequest) Code() spdm.Code { return spdm.CodePskFinish }

func (m PskFinishRequest) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodePskFinish}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil {
		return nil, err
	}
	if err := w.PutBytesFixed(m.RequesterVerifyData); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

// DecodePskFinishRequest reads a PskFinishRequest body. verifyDataSize
// is the length of the verify data; the responder passes its digest's
// output length.
func DecodePskFinishRequest(r *wire.Reader, verifyDataSize int) (*PskFinishRequest, error) {
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	verify, err := r.BytesFixed(verifyDataSize)
	if err != nil {
		return nil, err
	}
	return &PskFinishRequest{RequesterVerifyData: verify}, nil
}

// PskFinishRspResponse carries no body; its receipt alone signals
// that the session is ready for application messaging.
type PskFinishRspResponse struct{}

func (PskFinishRspResponse) Code() spdm.Code { return spdm.CodePskFinishRsp }

func (PskFinishRspResponse) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodePskFinishRsp}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

func DecodePskFinishRspResponse(r *wire.Reader) (PskFinishRspResponse, error) {
	if err := r.Skip(2); err != nil {
		return PskFinishRspResponse{}, err
	}
	return PskFinishRspResponse{}, nil
}
