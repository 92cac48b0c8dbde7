package requester

import (
	"github.com/spdm-embedded/spdm-go/pkg/config"
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/spdm/message"
	"github.com/spdm-embedded/spdm-go/pkg/spdmcrypto"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// Init is the pre-handshake typestate. It exposes nothing but the two
// calls needed to drive initialization; there is no way to reach for a
// measurement or secure request before a Session has been handed out.
type Init struct {
	engine *Engine
}

// NewInit constructs the initialization typestate around a fresh
// Engine. cfg must already have had ApplyDefaults and Validate
// called; versions is the build-time list of protocol versions this
// endpoint supports.
func NewInit(cfg *config.Config, versions []spdm.Version, deps Deps) *Init {
	return &Init{engine: New(cfg, versions, deps)}
}

// NextRequest encodes the next outbound initialization message.
func (i *Init) NextRequest(out []byte) ([]byte, error) {
	if i.engine.phase == spdm.PhaseSession {
		return nil, ErrAlreadyInitialized
	}
	return i.engine.NextRequest(out)
}

// HandleMessage parses the next inbound reply. Once it reports done,
// the Init value should be discarded in favor of the returned Session.
func (i *Init) HandleMessage(in []byte) (sess *Session, done bool, err error) {
	if i.engine.phase == spdm.PhaseSession {
		return nil, false, ErrAlreadyInitialized
	}
	done, err = i.engine.HandleMessage(in)
	if err != nil {
		return nil, false, err
	}
	if !done {
		return nil, false, nil
	}
	return &Session{engine: i.engine}, true, nil
}

// Session is the post-initialization typestate: the negotiated
// version, algorithms, and (on the certificate path) verified leaf
// public key are fixed, and the engine will reject any further
// initialization-phase traffic.
type Session struct {
	engine             *Engine
	signatureRequested bool
}

// MeasurementRequest encodes a GET_MEASUREMENTS request for the
// verified device identified by the completed handshake.
func (s *Session) MeasurementRequest(out []byte, attributes, operation uint8) ([]byte, error) {
	nonce, err := spdm.NewNonce(s.engine.deps.Random)
	if err != nil {
		return nil, err
	}
	s.engine.challengeNonce = nonce

	w := wire.NewWriter(out)
	req := message.GetMeasurementsRequest{
		Attributes: attributes,
		Operation:  operation,
		Nonce:      nonce,
		SlotID:     s.engine.certSlotID,
	}
	written, err := req.Encode(w, s.engine.negotiatedVersion)
	if err != nil {
		return nil, err
	}
	if err := s.engine.transcript.Append(written); err != nil {
		return nil, err
	}
	s.signatureRequested = attributes&message.RequestSignature != 0
	return written, nil
}

// HandleMeasurements parses a MEASUREMENTS response. When the request
// asked for a signature, the signature is checked against the hash of
// the transcript up to and including the response bytes that precede
// the signature field, using the leaf public key established during
// the certificate/challenge phase. A response without a signature to a
// request that asked for one fails with spdmcrypto.ErrSignatureInvalid.
func (s *Session) HandleMeasurements(in []byte) (*message.MeasurementsResponse, error) {
	r := wire.NewReader(in)
	hdr, err := message.DecodeHeader(r)
	if err != nil {
		return nil, err
	}
	if hdr.Code != spdm.CodeMeasurements {
		return nil, ErrUnexpectedResponse
	}

	cfg := s.engine.cfg
	resp, err := message.DecodeMeasurementsResponse(r, cfg.MaxMeasurementRecordSize, cfg.MaxOpaqueDataSize, cfg.MaxSignatureSize)
	if err != nil {
		return nil, err
	}

	if len(resp.Signature) == 0 {
		if s.signatureRequested {
			return nil, spdmcrypto.ErrSignatureInvalid
		}
		if aerr := s.engine.transcript.Append(in); aerr != nil {
			return nil, aerr
		}
		return resp, nil
	}

	if s.engine.leafKey == nil {
		return nil, ErrSessionNotEstablished
	}

	// Signature is a BytesVar field: resp.Signature is only the
	// payload, so the transcript boundary must also drop its 2-byte
	// length prefix to match what the responder signed.
	partial := in[:len(in)-len(resp.Signature)-2]
	if aerr := s.engine.transcript.Append(partial); aerr != nil {
		return nil, aerr
	}
	digestSize := s.engine.deps.Digest.Size()
	sum, herr := s.engine.transcript.Hash(s.engine.deps.Digest, make([]byte, digestSize))
	if herr != nil {
		return nil, herr
	}
	if verr := s.engine.deps.Verifier.Verify(sum, resp.Signature, s.engine.leafKey); verr != nil {
		return nil, verr
	}
	return resp, nil
}

// SecureRequest encodes an application-level request over the
// established secure session. Reserved: the Session phase's key
// exchange and encrypted transport are not yet implemented.
func (s *Session) SecureRequest(out []byte, payload []byte) ([]byte, error) {
	return nil, ErrSessionNotEstablished
}

// HandleSecureResponse decrypts and returns an application-level
// response received over the established secure session. Reserved for
// the same reason as SecureRequest.
func (s *Session) HandleSecureResponse(in []byte) ([]byte, error) {
	return nil, ErrSessionNotEstablished
}
