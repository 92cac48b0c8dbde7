package message

import (
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// GetCertificateRequest requests one chunk of a slot's certificate
// chain.
type GetCertificateRequest struct {
	SlotID uint8
	Offset uint16
	Length uint16
}

func (GetCertificateRequest) Code() spdm.Code { return spdm.CodeGetCertificate }

func (m GetCertificateRequest) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeGetCertificate}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.SlotID); err != nil { // Param1
		return nil, err
	}
	if err := w.PutReserved(1); err != nil { // Param2
		return nil, err
	}
	if err := w.PutUint16(m.Offset); err != nil {
		return nil, err
	}
	if err := w.PutUint16(m.Length); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

func DecodeGetCertificateRequest(r *wire.Reader) (*GetCertificateRequest, error) {
	slotID, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	offset, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	length, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	return &GetCertificateRequest{SlotID: slotID, Offset: offset, Length: length}, nil
}

// CertificateResponse carries one chunk of a slot's certificate
// chain. RemainderLength is the number of bytes still to be fetched
// after this chunk; reassembly continues until it reaches zero.
type CertificateResponse struct {
	SlotID          uint8
	PortionLength   uint16
	RemainderLength uint16
	CertChain       []byte
}

func (CertificateResponse) Code() spdm.Code { return spdm.CodeCertificate }

func (m CertificateResponse) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeCertificate}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.SlotID); err != nil {
		return nil, err
	}
	if err := w.PutReserved(1); err != nil {
		return nil, err
	}
	if err := w.PutUint16(m.PortionLength); err != nil {
		return nil, err
	}
	if err := w.PutUint16(m.RemainderLength); err != nil {
		return nil, err
	}
	if err := w.PutBytesFixed(m.CertChain); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

// DecodeCertificateResponse reads a CertificateResponse body.
// maxPortionSize bounds PortionLength against the receiver's buffer;
// a response claiming more than that fails with
// wire.ErrUnexpectedValue, which the requester returns unchanged.
func DecodeCertificateResponse(r *wire.Reader, maxPortionSize int) (*CertificateResponse, error) {
	slotID, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	portionLength, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	remainderLength, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if int(portionLength) > maxPortionSize {
		return nil, wire.ErrUnexpectedValue
	}
	chain, err := r.BytesFixed(int(portionLength))
	if err != nil {
		return nil, err
	}
	return &CertificateResponse{
		SlotID:          slotID,
		PortionLength:   portionLength,
		RemainderLength: remainderLength,
		CertChain:       chain,
	}, nil
}
