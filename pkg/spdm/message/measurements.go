package message

import (
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// RequestSignature is a bit in GetMeasurementsRequest's Attributes
// byte asking the responder to sign its response.
const RequestSignature uint8 = 0x01

// GetMeasurementsRequest asks for one or all measurement blocks,
// optionally with a signature over the response.
type GetMeasurementsRequest struct {
	Attributes uint8
	Operation  uint8
	Nonce      spdm.Nonce
	SlotID     uint8
}

func (GetMeasurementsRequest) Code() spdm.Code { return spdm.CodeGetMeasurements }

func (m GetMeasurementsRequest) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeGetMeasurements}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.Attributes); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.Operation); err != nil {
		return nil, err
	}
	if err := w.PutBytesFixed(m.Nonce[:]); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.SlotID); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

func DecodeGetMeasurementsRequest(r *wire.Reader) (*GetMeasurementsRequest, error) {
	attrs, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	op, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	nonceBytes, err := r.BytesFixed(spdm.NonceSize)
	if err != nil {
		return nil, err
	}
	slotID, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	var nonce spdm.Nonce
	copy(nonce[:], nonceBytes)
	return &GetMeasurementsRequest{Attributes: attrs, Operation: op, Nonce: nonce, SlotID: slotID}, nil
}

// MeasurementsResponse carries the measurement record, a nonce echo,
// opaque data, and, when requested, a signature binding the response
// to the transcript. The signature field is always present on the
// wire; it is empty when no signature was requested.
type MeasurementsResponse struct {
	NumberOfBlocks int
	Record         []byte
	Nonce          spdm.Nonce
	OpaqueData     []byte
	Signature      []byte
}

func (MeasurementsResponse) Code() spdm.Code { return spdm.CodeMeasurements }

func (m MeasurementsResponse) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeMeasurements}).Encode(w); err != nil {
		return nil, err
	}
	if m.NumberOfBlocks > 0xFF {
		return nil, wire.ErrUnexpectedValue
	}
	if err := w.PutUint8(uint8(m.NumberOfBlocks)); err != nil {
		return nil, err
	}
	if err := w.PutReserved(1); err != nil {
		return nil, err
	}
	if err := w.PutBytesVar(m.Record); err != nil {
		return nil, err
	}
	if err := w.PutBytesFixed(m.Nonce[:]); err != nil {
		return nil, err
	}
	if err := w.PutBytesVar(m.OpaqueData); err != nil {
		return nil, err
	}
	if err := w.PutBytesVar(m.Signature); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

// DecodeMeasurementsResponse reads a MeasurementsResponse body.
// maxRecord, maxOpaque, and maxSig bound the three variable-length
// fields.
func DecodeMeasurementsResponse(r *wire.Reader, maxRecord, maxOpaque, maxSig int) (*MeasurementsResponse, error) {
	numBlocks, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	record, err := r.BytesVar(maxRecord)
	if err != nil {
		return nil, err
	}
	nonceBytes, err := r.BytesFixed(spdm.NonceSize)
	if err != nil {
		return nil, err
	}
	opaque, err := r.BytesVar(maxOpaque)
	if err != nil {
		return nil, err
	}
	sig, err := r.BytesVar(maxSig)
	if err != nil {
		return nil, err
	}
	var nonce spdm.Nonce
	copy(nonce[:], nonceBytes)
	return &MeasurementsResponse{
		NumberOfBlocks: int(numBlocks),
		Record:         record,
		Nonce:          nonce,
		OpaqueData:     opaque,
		Signature:      sig,
	}, nil
}
