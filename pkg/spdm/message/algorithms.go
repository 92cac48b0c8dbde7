package message

import (
	"github.com/spdm-embedded/spdm-go/pkg/config"
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// MaxAlgorithmEntries bounds each preference list carried in a
// NegotiateAlgorithms request.
const MaxAlgorithmEntries = 8

// NegotiateAlgorithmsRequest carries the requester's ordered
// preference lists, highest priority first.
type NegotiateAlgorithmsRequest struct {
	AsymmetricSigning []config.AsymAlgorithm
	Hash              []config.HashAlgorithm
}

func (NegotiateAlgorithmsRequest) Code() spdm.Code { return spdm.CodeNegotiateAlgorithms }

func (m NegotiateAlgorithmsRequest) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeNegotiateAlgorithms}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil {
		return nil, err
	}
	if len(m.AsymmetricSigning) > MaxAlgorithmEntries || len(m.Hash) > MaxAlgorithmEntries {
		return nil, wire.ErrUnexpectedValue
	}
	if err := w.PutUint8(uint8(len(m.AsymmetricSigning))); err != nil {
		return nil, err
	}
	for _, a := range m.AsymmetricSigning {
		if err := w.PutUint8(uint8(a)); err != nil {
			return nil, err
		}
	}
	if err := w.PutUint8(uint8(len(m.Hash))); err != nil {
		return nil, err
	}
	for _, h := range m.Hash {
		if err := w.PutUint8(uint8(h)); err != nil {
			return nil, err
		}
	}
	return w.Written()[start:], nil
}

func DecodeNegotiateAlgorithmsRequest(r *wire.Reader) (*NegotiateAlgorithmsRequest, error) {
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	asymCount, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if int(asymCount) > MaxAlgorithmEntries {
		return nil, wire.ErrUnexpectedValue
	}
	asym := make([]config.AsymAlgorithm, asymCount)
	for i := range asym {
		b, err := r.Uint8()
		if err != nil {
			return nil, err
		}
		asym[i] = config.AsymAlgorithm(b)
	}
	hashCount, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if int(hashCount) > MaxAlgorithmEntries {
		return nil, wire.ErrUnexpectedValue
	}
	hash := make([]config.HashAlgorithm, hashCount)
	for i := range hash {
		b, err := r.Uint8()
		if err != nil {
			return nil, err
		}
		hash[i] = config.HashAlgorithm(b)
	}
	return &NegotiateAlgorithmsRequest{AsymmetricSigning: asym, Hash: hash}, nil
}

// AlgorithmsResponse carries the negotiated selection.
type AlgorithmsResponse struct {
	Asym config.AsymAlgorithm
	Hash config.HashAlgorithm
}

func (AlgorithmsResponse) Code() spdm.Code { return spdm.CodeAlgorithms }

func (m AlgorithmsResponse) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeAlgorithms}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutReserved(2); err != nil {
		return nil, err
	}
	if err := w.PutUint8(uint8(m.Asym)); err != nil {
		return nil, err
	}
	if err := w.PutUint8(uint8(m.Hash)); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

func DecodeAlgorithmsResponse(r *wire.Reader) (*AlgorithmsResponse, error) {
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	asym, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	hash, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	return &AlgorithmsResponse{Asym: config.AsymAlgorithm(asym), Hash: config.HashAlgorithm(hash)}, nil
}
