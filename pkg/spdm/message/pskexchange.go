package message

import (
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// ContextSize is the fixed size of the requester/responder context
// values exchanged during PSK_EXCHANGE, sized the same as a nonce.
const ContextSize = 32

// PskExchangeRequest opens PSK-based session establishment. PSKHint
// identifies which pre-shared key the responder should use; it is
// opaque to the engine.
type PskExchangeRequest struct {
	MeasurementSummaryHashType uint8
	RequesterContext           [ContextSize]byte
	PSKHint                    []byte
}

func (PskExchangeRequest) Code() spdm.Code { return spdm.CodePskExchange }

func (m PskExchangeRequest) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodePskExchange}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.MeasurementSummaryHashType); err != nil {
		return nil, err
	}
	if err := w.PutReserved(1); err != nil {
		return nil, err
	}
	if err := w.PutBytesFixed(m.RequesterContext[:]); err != nil {
		return nil, err
	}
	if err := w.PutBytesVar(m.PSKHint); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

func DecodePskExchangeRequest(r *wire.Reader, maxHint int) (*PskExchangeRequest, error) {
	hashType, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	ctxBytes, err := r.BytesFixed(ContextSize)
	if err != nil {
		return nil, err
	}
	hint, err := r.BytesVar(maxHint)
	if err != nil {
		return nil, err
	}
	var ctx [ContextSize]byte
	copy(ctx[:], ctxBytes)
	return &PskExchangeRequest{MeasurementSummaryHashType: hashType, RequesterContext: ctx, PSKHint: hint}, nil
}

// PskExchangeRspResponse completes the key-exchange half of the PSK
// path; the session is not usable until PSK_FINISH/PSK_FINISH_RSP
// also complete.
type PskExchangeRspResponse struct {
	ResponderContext       [ContextSize]byte
	MeasurementSummaryHash []byte
	OpaqueData             []byte
	ResponderVerifyData    []byte
}

func (PskExchangeRspResponse) Code() spdm.Code { return spdm.CodePskExchangeRsp }

func (m PskExchangeRspResponse) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodePskExchangeRsp}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil {
		return nil, err
	}
	if err := w.PutBytesFixed(m.ResponderContext[:]); err != nil {
		return nil, err
	}
	if err := w.PutBytesFixed(m.MeasurementSummaryHash); err != nil {
		return nil, err
	}
	if err := w.PutBytesVar(m.OpaqueData); err != nil {
		return nil, err
	}
	if err := w.PutBytesVar(m.ResponderVerifyData); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

// DecodePskExchangeRspResponse reads a PskExchangeRspResponse body.
// digestSize bounds the fixed measurement-summary-hash field;
// maxOpaque and maxVerify bound the variable-length fields.
func DecodePskExchangeRspResponse(r *wire.Reader, digestSize, maxOpaque, maxVerify int) (*PskExchangeRspResponse, error) {
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	ctxBytes, err := r.BytesFixed(ContextSize)
	if err != nil {
		return nil, err
	}
	measHash, err := r.BytesFixed(digestSize)
	if err != nil {
		return nil, err
	}
	opaque, err := r.BytesVar(maxOpaque)
	if err != nil {
		return nil, err
	}
	verify, err := r.BytesVar(maxVerify)
	if err != nil {
		return nil, err
	}
	var ctx [ContextSize]byte
	copy(ctx[:], ctxBytes)
	return &PskExchangeRspResponse{
		ResponderContext:       ctx,
		MeasurementSummaryHash: measHash,
		OpaqueData:             opaque,
		ResponderVerifyData:    verify,
	}, nil
}
