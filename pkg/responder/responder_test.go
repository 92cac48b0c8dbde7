package responder_test

import (
	"testing"

	"github.com/spdm-embedded/spdm-go/pkg/config"
	"github.com/spdm-embedded/spdm-go/pkg/requester"
	"github.com/spdm-embedded/spdm-go/pkg/responder"
	"github.com/spdm-embedded/spdm-go/pkg/slot"
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/spdm/message"
	"github.com/spdm-embedded/spdm-go/pkg/spdmcrypto/reference"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

func TestMessagePermittedMatchesPhaseExpectations(t *testing.T) {
	cases := []struct {
		phase   spdm.Phase
		allowed spdm.Code
		other   spdm.Code
	}{
		{spdm.PhaseVersion, spdm.CodeGetVersion, spdm.CodeGetCapabilities},
		{spdm.PhaseCapabilities, spdm.CodeGetCapabilities, spdm.CodeGetVersion},
		{spdm.PhaseAlgorithms, spdm.CodeNegotiateAlgorithms, spdm.CodeGetDigests},
		{spdm.PhaseDigests, spdm.CodeGetDigests, spdm.CodeGetCertificate},
		{spdm.PhaseCertificate, spdm.CodeGetCertificate, spdm.CodeChallenge},
		{spdm.PhaseChallenge, spdm.CodeChallenge, spdm.CodeGetMeasurements},
		{spdm.PhasePskExchange, spdm.CodePskExchange, spdm.CodePskFinish},
		{spdm.PhasePskFinish, spdm.CodePskFinish, spdm.CodePskExchange},
		{spdm.PhaseSession, spdm.CodeGetMeasurements, spdm.CodeGetVersion},
		{spdm.PhaseTerminal, spdm.CodeGetVersion, spdm.CodeGetVersion},
	}
	for _, c := range cases {
		if c.phase != spdm.PhaseTerminal && !responder.MessagePermitted(c.phase, c.allowed) {
			t.Errorf("phase %s: expected code %s permitted", c.phase, c.allowed)
		}
		if responder.MessagePermitted(c.phase, c.other) {
			t.Errorf("phase %s: expected code %s rejected", c.phase, c.other)
		}
	}
}

// buildChain constructs a single-level certificate chain record (leaf
// public key signed by a root key) in the reference engine's
// certRecordSize encoding, returning the root and leaf key pairs
// alongside the chain bytes.
func buildChain(t *testing.T) (root, leaf *reference.P256KeyPair, chain []byte) {
	t.Helper()
	root, err := reference.GenerateP256KeyPair()
	if err != nil {
		t.Fatalf("generate root key: %v", err)
	}
	leaf, err = reference.GenerateP256KeyPair()
	if err != nil {
		t.Fatalf("generate leaf key: %v", err)
	}

	digest := reference.SHA256{}
	state := digest.New()
	leafPub := leaf.PublicKey()
	if _, err := state.Write(leafPub); err != nil {
		t.Fatalf("hash leaf key: %v", err)
	}
	sum := state.Sum(nil)

	signer := reference.P256Signer{KeyPair: root}
	sig, err := signer.Sign(sum, make([]byte, reference.P256SignatureSizeBytes))
	if err != nil {
		t.Fatalf("sign leaf key: %v", err)
	}

	chain = append(append([]byte{}, leafPub...), sig...)
	return root, leaf, chain
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	var cfg config.Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	return &cfg
}

func runHandshake(t *testing.T, req *requester.Init, resp *responder.Responder) *requester.Session {
	t.Helper()
	reqBuf := make([]byte, 8192)
	respBuf := make([]byte, 8192)

	for i := 0; i < 10; i++ {
		reqBytes, err := req.NextRequest(reqBuf)
		if err != nil {
			t.Fatalf("NextRequest: %v", err)
		}
		respBytes, err := resp.HandleMessage(reqBytes, respBuf)
		if err != nil {
			t.Fatalf("responder HandleMessage: %v", err)
		}
		sess, done, err := req.HandleMessage(respBytes)
		if err != nil {
			t.Fatalf("requester HandleMessage: %v", err)
		}
		if done {
			return sess
		}
	}
	t.Fatal("handshake did not complete within bound")
	return nil
}

func TestCertHandshakeAndMeasurementRoundTrip(t *testing.T) {
	cfg := newTestConfig(t)
	root, leaf, chain := buildChain(t)

	slots := slot.New(cfg)
	if err := slots.Fill(0, chain, config.HashSHA256, config.AsymECDSA_P256); err != nil {
		t.Fatalf("fill slot: %v", err)
	}

	versions := []spdm.Version{{Major: 1, Minor: 0}}

	reqDeps := requester.Deps{
		Digest:        reference.SHA256{},
		Verifier:      reference.P256Verifier{},
		Random:        reference.Random{},
		RootPublicKey: root.PublicKey(),
	}
	respDeps := responder.Deps{
		Digest: reference.SHA256{},
		Signer: reference.P256Signer{KeyPair: leaf},
		Random: reference.Random{},
	}

	init := requester.NewInit(cfg, versions, reqDeps)
	resp := responder.New(cfg, versions, slots, respDeps)

	sess := runHandshake(t, init, resp)
	if resp.Phase() != spdm.PhaseSession {
		t.Fatalf("responder phase = %s, want Session", resp.Phase())
	}

	reqBuf := make([]byte, 4096)
	respBuf := make([]byte, 4096)

	reqBytes, err := sess.MeasurementRequest(reqBuf, 0, 0)
	if err != nil {
		t.Fatalf("MeasurementRequest: %v", err)
	}
	respBytes, err := resp.HandleMessage(reqBytes, respBuf)
	if err != nil {
		t.Fatalf("responder HandleMessage(measurements): %v", err)
	}
	measResp, err := sess.HandleMeasurements(respBytes)
	if err != nil {
		t.Fatalf("HandleMeasurements: %v", err)
	}
	if len(measResp.Signature) != 0 {
		t.Fatalf("unsigned request produced a signature")
	}

	reqBuf2 := make([]byte, 4096)
	respBuf2 := make([]byte, 4096)

	reqBytes2, err := sess.MeasurementRequest(reqBuf2, message.RequestSignature, 0)
	if err != nil {
		t.Fatalf("signed MeasurementRequest: %v", err)
	}
	respBytes2, err := resp.HandleMessage(reqBytes2, respBuf2)
	if err != nil {
		t.Fatalf("responder HandleMessage(signed measurements): %v", err)
	}
	measResp2, err := sess.HandleMeasurements(respBytes2)
	if err != nil {
		t.Fatalf("HandleMeasurements(signed): %v", err)
	}
	if len(measResp2.Signature) == 0 {
		t.Fatal("signed request did not return a signature")
	}
}

func TestUnexpectedRequestProducesErrorAndTerminates(t *testing.T) {
	cfg := newTestConfig(t)
	_, leaf, chain := buildChain(t)
	slots := slot.New(cfg)
	if err := slots.Fill(0, chain, config.HashSHA256, config.AsymECDSA_P256); err != nil {
		t.Fatalf("fill slot: %v", err)
	}
	versions := []spdm.Version{{Major: 1, Minor: 0}}
	respDeps := responder.Deps{
		Digest: reference.SHA256{},
		Signer: reference.P256Signer{KeyPair: leaf},
		Random: reference.Random{},
	}
	resp := responder.New(cfg, versions, slots, respDeps)

	reqBuf := make([]byte, 256)
	respBuf := make([]byte, 256)
	w := wire.NewWriter(reqBuf)
	req := message.GetCapabilitiesRequest{}
	reqBytes, err := req.Encode(w, spdm.Version{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	respBytes, err := resp.HandleMessage(reqBytes, respBuf)
	if err == nil {
		t.Fatal("expected an error for an out-of-phase request")
	}
	if resp.Phase() != spdm.PhaseTerminal {
		t.Fatalf("responder phase = %s, want Terminal", resp.Phase())
	}

	r := wire.NewReader(respBytes)
	hdr, err := message.DecodeHeader(r)
	if err != nil {
		t.Fatalf("decode error reply header: %v", err)
	}
	if hdr.Code != spdm.CodeError {
		t.Fatalf("reply code = %s, want ERROR", hdr.Code)
	}
	errResp, err := message.DecodeErrorResponse(r, cfg.MaxOpaqueDataSize)
	if err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errResp.ErrorCode != spdm.ErrorCodeUnexpectedRequest {
		t.Fatalf("error code = %v, want UnexpectedRequest", errResp.ErrorCode)
	}
}
