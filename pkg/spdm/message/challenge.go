package message

import (
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// ChallengeRequest carries a freshly sampled nonce the responder must
// bind into its signature.
type ChallengeRequest struct {
	SlotID                    uint8
	MeasurementSummaryHashType uint8
	Nonce                     spdm.Nonce
}

func (ChallengeRequest) Code() spdm.Code { return spdm.CodeChallenge }

func (m ChallengeRequest) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeChallenge}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.SlotID); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.MeasurementSummaryHashType); err != nil {
		return nil, err
	}
	if err := w.PutBytesFixed(m.Nonce[:]); err != nil {
		return nil, err
	}
	return w.Written()[start:], nil
}

func DecodeChallengeRequest(r *wire.Reader) (*ChallengeRequest, error) {
	slotID, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	hashType, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	nonceBytes, err := r.BytesFixed(spdm.NonceSize)
	if err != nil {
		return nil, err
	}
	var nonce spdm.Nonce
	copy(nonce[:], nonceBytes)
	return &ChallengeRequest{SlotID: slotID, MeasurementSummaryHashType: hashType, Nonce: nonce}, nil
}

// ChallengeAuthResponse carries the responder's attestation: a hash
// of its certificate chain, its own nonce, a measurement summary hash
// (always present, digest-sized), opaque data, and the signature that
// binds all of it
// (via the transcript) to the requester's challenge.
type ChallengeAuthResponse struct {
	SlotID               uint8
	CertChainHash        []byte
	Nonce                spdm.Nonce
	MeasurementSummaryHash []byte
	OpaqueData           []byte
	Signature            []byte
}

func (ChallengeAuthResponse) Code() spdm.Code { return spdm.CodeChallengeAuth }

func (m ChallengeAuthResponse) Encode(w *wire.Writer, version spdm.Version) ([]byte, error) {
	start := w.Len()
	if err := (Header{Version: version, Code: spdm.CodeChallengeAuth}).Encode(w); err != nil {
		return nil, err
	}
	if err := w.PutUint8(m.SlotID); err != nil {
		return nil, err
	}
	if err := w.PutReserved(1); err != nil {
		return nil, err
	}
	if err := w.PutBytesFixed(m.CertChainHash); err != nil {
		return nil, err
	}
	if err := w.PutBytesFixed(m.Nonce[:]); err != nil {
		return nil, err
	}
	if err := w.PutBytesFixed(m.MeasurementSummaryHash); err != nil {
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

// DecodeChallengeAuthResponse reads a ChallengeAuthResponse body.
// digestSize is the negotiated hash size (for the two fixed-length
// digest fields); maxOpaque and maxSig bound the two variable-length
// fields.
func DecodeChallengeAuthResponse(r *wire.Reader, digestSize, maxOpaque, maxSig int) (*ChallengeAuthResponse, error) {
	slotID, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil {
		return nil, err
	}
	certHash, err := r.BytesFixed(digestSize)
	if err != nil {
		return nil, err
	}
	nonceBytes, err := r.BytesFixed(spdm.NonceSize)
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
	sig, err := r.BytesVar(maxSig)
	if err != nil {
		return nil, err
	}
	var nonce spdm.Nonce
	copy(nonce[:], nonceBytes)
	return &ChallengeAuthResponse{
		SlotID:                 slotID,
		CertChainHash:          certHash,
		Nonce:                  nonce,
		MeasurementSummaryHash: measHash,
		OpaqueData:             opaque,
		Signature:              sig,
	}, nil
}
