package message

import (
	"bytes"
	"testing"

	"github.com/spdm-embedded/spdm-go/pkg/config"
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

var v12 = spdm.Version{Major: 1, Minor: 2}

func TestVersionRoundtrip(t *testing.T) {
	m := VersionResponse{Versions: []spdm.Version{{Major: 1, Minor: 0}, {Major: 1, Minor: 2}}}
	buf := make([]byte, 64)
	w := wire.NewWriter(buf)
	if _, err := m.Encode(w, v12); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	r := wire.NewReader(w.Written())
	hdr, err := DecodeHeader(r)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if hdr.Code != spdm.CodeVersion {
		t.Fatalf("Code = %v, want CodeVersion", hdr.Code)
	}
	got, err := DecodeVersionResponse(r)
	if err != nil {
		t.Fatalf("DecodeVersionResponse: %v", err)
	}
	if len(got.Versions) != len(m.Versions) {
		t.Fatalf("Versions len = %d, want %d", len(got.Versions), len(m.Versions))
	}
	for i := range m.Versions {
		if !got.Versions[i].Equal(m.Versions[i]) {
			t.Errorf("Versions[%d] = %v, want %v", i, got.Versions[i], m.Versions[i])
		}
	}
}

func TestCapabilitiesRoundtrip(t *testing.T) {
	m := GetCapabilitiesRequest{CTExponent: 5, Capabilities: config.CapCert | config.CapMeas}
	buf := make([]byte, 32)
	w := wire.NewWriter(buf)
	if _, err := m.Encode(w, v12); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	r := wire.NewReader(w.Written())
	if _, err := DecodeHeader(r); err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	got, err := DecodeGetCapabilitiesRequest(r)
	if err != nil {
		t.Fatalf("DecodeGetCapabilitiesRequest: %v", err)
	}
	if *got != m {
		t.Errorf("got %+v, want %+v", *got, m)
	}
}

func TestAlgorithmsRoundtrip(t *testing.T) {
	req := NegotiateAlgorithmsRequest{
		AsymmetricSigning: []config.AsymAlgorithm{config.AsymECDSA_P256, config.AsymECDSA_P384},
		Hash:              []config.HashAlgorithm{config.HashSHA384, config.HashSHA256},
	}
	buf := make([]byte, 32)
	w := wire.NewWriter(buf)
	if _, err := req.Encode(w, v12); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	r := wire.NewReader(w.Written())
	if _, err := DecodeHeader(r); err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	got, err := DecodeNegotiateAlgorithmsRequest(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.AsymmetricSigning) != 2 || got.AsymmetricSigning[0] != config.AsymECDSA_P256 {
		t.Errorf("AsymmetricSigning mismatch: %v", got.AsymmetricSigning)
	}
	if len(got.Hash) != 2 || got.Hash[0] != config.HashSHA384 {
		t.Errorf("Hash mismatch: %v", got.Hash)
	}
}

func TestDigestsRoundtrip(t *testing.T) {
	d0 := bytes.Repeat([]byte{0xAA}, 32)
	d2 := bytes.Repeat([]byte{0xBB}, 32)
	m := DigestsResponse{SlotMask: 0b0000_0101, Digests: [][]byte{d0, d2}}
	buf := make([]byte, 128)
	w := wire.NewWriter(buf)
	if _, err := m.Encode(w, v12); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	r := wire.NewReader(w.Written())
	if _, err := DecodeHeader(r); err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	got, err := DecodeDigestsResponse(r, 32)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.SlotMask != m.SlotMask || len(got.Digests) != 2 {
		t.Fatalf("got %+v", got)
	}
	if !bytes.Equal(got.Digests[0], d0) || !bytes.Equal(got.Digests[1], d2) {
		t.Errorf("digest bytes mismatch")
	}
}

func TestCertificateRoundtrip(t *testing.T) {
	chain := bytes.Repeat([]byte{0x11}, 100)
	m := CertificateResponse{SlotID: 1, PortionLength: 100, RemainderLength: 0, CertChain: chain}
	buf := make([]byte, 256)
	w := wire.NewWriter(buf)
	if _, err := m.Encode(w, v12); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	r := wire.NewReader(w.Written())
	if _, err := DecodeHeader(r); err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	got, err := DecodeCertificateResponse(r, 4096)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.SlotID != 1 || got.PortionLength != 100 || got.RemainderLength != 0 {
		t.Fatalf("got %+v", got)
	}
	if !bytes.Equal(got.CertChain, chain) {
		t.Errorf("CertChain mismatch")
	}
}

func TestCertificateRejectsOversizePortion(t *testing.T) {
	chain := bytes.Repeat([]byte{0x11}, 100)
	m := CertificateResponse{SlotID: 0, PortionLength: 100, RemainderLength: 0, CertChain: chain}
	buf := make([]byte, 256)
	w := wire.NewWriter(buf)
	if _, err := m.Encode(w, v12); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	r := wire.NewReader(w.Written())
	if _, err := DecodeHeader(r); err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if _, err := DecodeCertificateResponse(r, 50); err != wire.ErrUnexpectedValue {
		t.Fatalf("got %v, want ErrUnexpectedValue", err)
	}
}

func TestChallengeRoundtrip(t *testing.T) {
	var nonce spdm.Nonce
	for i := range nonce {
		nonce[i] = byte(i)
	}
	req := ChallengeRequest{SlotID: 0, MeasurementSummaryHashType: 1, Nonce: nonce}
	buf := make([]byte, 64)
	w := wire.NewWriter(buf)
	if _, err := req.Encode(w, v12); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	r := wire.NewReader(w.Written())
	if _, err := DecodeHeader(r); err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	got, err := DecodeChallengeRequest(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Nonce != nonce || got.SlotID != 0 || got.MeasurementSummaryHashType != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestChallengeAuthRoundtrip(t *testing.T) {
	certHash := bytes.Repeat([]byte{1}, 32)
	measHash := bytes.Repeat([]byte{2}, 32)
	opaque := []byte{0xDE, 0xAD}
	sig := bytes.Repeat([]byte{3}, 64)
	var nonce spdm.Nonce
	resp := ChallengeAuthResponse{
		SlotID:                 0,
		CertChainHash:          certHash,
		Nonce:                  nonce,
		MeasurementSummaryHash: measHash,
		OpaqueData:             opaque,
		Signature:              sig,
	}
	buf := make([]byte, 256)
	w := wire.NewWriter(buf)
	if _, err := resp.Encode(w, v12); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	r := wire.NewReader(w.Written())
	if _, err := DecodeHeader(r); err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	got, err := DecodeChallengeAuthResponse(r, 32, 1024, 64)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got.CertChainHash, certHash) || !bytes.Equal(got.Signature, sig) || !bytes.Equal(got.OpaqueData, opaque) {
		t.Errorf("got %+v", got)
	}
}

func TestPskExchangeRoundtrip(t *testing.T) {
	var ctx [ContextSize]byte
	for i := range ctx {
		ctx[i] = byte(i)
	}
	req := PskExchangeRequest{MeasurementSummaryHashType: 0, RequesterContext: ctx, PSKHint: []byte("device-42")}
	buf := make([]byte, 128)
	w := wire.NewWriter(buf)
	if _, err := req.Encode(w, v12); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	r := wire.NewReader(w.Written())
	if _, err := DecodeHeader(r); err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	got, err := DecodePskExchangeRequest(r, 256)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.RequesterContext != ctx || string(got.PSKHint) != "device-42" {
		t.Errorf("got %+v", got)
	}
}

func TestPskFinishRoundtrip(t *testing.T) {
	verify := bytes.Repeat([]byte{0x55}, 32)
	req := PskFinishRequest{RequesterVerifyData: verify}
	buf := make([]byte, 64)
	w := wire.NewWriter(buf)
	if _, err := req.Encode(w, v12); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	r := wire.NewReader(w.Written())
	if _, err := DecodeHeader(r); err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	got, err := DecodePskFinishRequest(r, 32)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got.RequesterVerifyData, verify) {
		t.Errorf("verify data mismatch")
	}
}

func TestErrorResponseRoundtrip(t *testing.T) {
	m := ErrorResponse{ErrorCode: spdm.ErrorCodeUnexpectedRequest, ErrorData: 0, ExtendedErrorData: nil}
	buf := make([]byte, 32)
	w := wire.NewWriter(buf)
	if _, err := m.Encode(w, v12); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	r := wire.NewReader(w.Written())
	hdr, err := DecodeHeader(r)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if hdr.Code != spdm.CodeError {
		t.Fatalf("Code = %v, want CodeError", hdr.Code)
	}
	got, err := DecodeErrorResponse(r, 256)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.ErrorCode != spdm.ErrorCodeUnexpectedRequest {
		t.Errorf("ErrorCode = %v, want %v", got.ErrorCode, spdm.ErrorCodeUnexpectedRequest)
	}
}
