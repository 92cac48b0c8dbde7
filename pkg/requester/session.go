// Package requester implements the SPDM requester state machine: the
// side of the protocol that drives initialization and, once it
// completes, issues measurement requests. Secure application messaging
// is not implemented: Session.SecureRequest and
// Session.HandleSecureResponse return ErrSessionNotEstablished.
package requester

import (
	"github.com/pion/logging"

	"github.com/spdm-embedded/spdm-go/pkg/config"
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/spdm/message"
	"github.com/spdm-embedded/spdm-go/pkg/spdmcrypto"
	"github.com/spdm-embedded/spdm-go/pkg/transcript"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// Deps bundles the synchronous crypto and randomness providers the
// session calls out to. None of these may allocate from the session's
// own per-call path; Digest.New() is the one call site where the
// standard library's hash.Hash forces a heap allocation, documented
// as a pragmatic limit rather than a violation of intent.
type Deps struct {
	Digest        spdmcrypto.Digest
	Verifier      spdmcrypto.Verifier
	Random        spdmcrypto.Random
	RootPublicKey []byte
	Logger        logging.LeveledLogger
}

// Engine drives SPDM initialization from the requester side. Callers
// alternate NextRequest and HandleMessage, feeding each message over
// whatever transport they choose; the session never touches the
// transport itself.
type Engine struct {
	cfg               *config.Config
	deps              Deps
	supportedVersions []spdm.Version

	phase             spdm.Phase
	negotiatedVersion spdm.Version
	peerCapabilities  config.Capabilities
	algos             spdm.AlgorithmSelection

	transcript *transcript.Buffer

	certSlotID uint8
	certBuf    []byte
	certLen    int

	challengeNonce spdm.Nonce
	pskContext     [message.ContextSize]byte

	leafKey []byte
}

// New constructs a requester Engine. cfg must already have had
// ApplyDefaults and Validate called. versions is the build-time list
// of protocol versions this endpoint supports.
func New(cfg *config.Config, versions []spdm.Version, deps Deps) *Engine {
	return &Engine{
		cfg:               cfg,
		deps:              deps,
		supportedVersions: versions,
		phase:             spdm.PhaseVersion,
		transcript:        transcript.New(make([]byte, cfg.TranscriptSize)),
		certBuf:           make([]byte, cfg.MaxCertChainSize),
	}
}

// Phase reports the session's current phase.
func (s *Engine) Phase() spdm.Phase { return s.phase }

// chunkSize picks how many certificate bytes to request next,
// bounded by what remains of the slot buffer.
func (s *Engine) chunkSize() int {
	const preferred = 512
	remaining := len(s.certBuf) - s.certLen
	if remaining < preferred {
		return remaining
	}
	return preferred
}

// NextRequest encodes the next outbound message for the current phase
// into out and returns the written sub-slice.
func (s *Engine) NextRequest(out []byte) ([]byte, error) {
	if s.phase.Terminal() || s.phase == spdm.PhaseSession {
		return nil, spdm.ErrWrongPhase
	}

	w := wire.NewWriter(out)
	var (
		written []byte
		err     error
	)

	switch s.phase {
	case spdm.PhaseVersion:
		written, err = message.GetVersionRequest{}.Encode(w, spdm.Version{Major: 1, Minor: 0})

	case spdm.PhaseCapabilities:
		req := message.GetCapabilitiesRequest{Capabilities: s.cfg.Capabilities}
		written, err = req.Encode(w, s.negotiatedVersion)

	case spdm.PhaseAlgorithms:
		req := message.NegotiateAlgorithmsRequest{
			AsymmetricSigning: s.cfg.AsymmetricSigning,
			Hash:              s.cfg.Hash,
		}
		written, err = req.Encode(w, s.negotiatedVersion)

	case spdm.PhaseDigests:
		written, err = message.GetDigestsRequest{}.Encode(w, s.negotiatedVersion)

	case spdm.PhaseCertificate:
		req := message.GetCertificateRequest{
			SlotID: s.certSlotID,
			Offset: uint16(s.certLen),
			Length: uint16(s.chunkSize()),
		}
		written, err = req.Encode(w, s.negotiatedVersion)

	case spdm.PhaseChallenge:
		nonce, nerr := spdm.NewNonce(s.deps.Random)
		if nerr != nil {
			return nil, nerr
		}
		s.challengeNonce = nonce
		req := message.ChallengeRequest{SlotID: s.certSlotID, Nonce: nonce}
		written, err = req.Encode(w, s.negotiatedVersion)

	case spdm.PhasePskExchange:
		if rerr := s.deps.Random.Read(s.pskContext[:]); rerr != nil {
			return nil, rerr
		}
		req := message.PskExchangeRequest{RequesterContext: s.pskContext}
		written, err = req.Encode(w, s.negotiatedVersion)

	case spdm.PhasePskFinish:
		sum, herr := s.transcript.Hash(s.deps.Digest, make([]byte, s.deps.Digest.Size()))
		if herr != nil {
			return nil, herr
		}
		req := message.PskFinishRequest{RequesterVerifyData: sum}
		written, err = req.Encode(w, s.negotiatedVersion)

	default:
		return nil, spdm.ErrWrongPhase
	}

	if err != nil {
		return nil, err
	}
	if err := s.transcript.Append(written); err != nil {
		s.phase = spdm.PhaseTerminal
		return nil, err
	}
	s.logf("sent %s in phase %s", written, s.phase)
	return written, nil
}

// HandleMessage parses a received reply, validates it against the
// current phase, advances state, and reports whether initialization
// has just completed.
func (s *Engine) HandleMessage(in []byte) (done bool, err error) {
	defer func() {
		if err != nil {
			s.phase = spdm.PhaseTerminal
		}
	}()

	r := wire.NewReader(in)
	hdr, err := message.DecodeHeader(r)
	if err != nil {
		return false, err
	}

	switch s.phase {
	case spdm.PhaseVersion:
		if hdr.Code != spdm.CodeVersion {
			return false, ErrUnexpectedResponse
		}
		resp, derr := message.DecodeVersionResponse(r)
		if derr != nil {
			return false, derr
		}
		version, nerr := spdm.NegotiateVersion(s.supportedVersions, resp.Versions)
		if nerr != nil {
			return false, nerr
		}
		s.negotiatedVersion = version
		s.phase = spdm.PhaseCapabilities

	case spdm.PhaseCapabilities:
		if hdr.Code != spdm.CodeCapabilities {
			return false, ErrUnexpectedResponse
		}
		resp, derr := message.DecodeCapabilitiesResponse(r)
		if derr != nil {
			return false, derr
		}
		s.peerCapabilities = resp.Capabilities
		s.phase = spdm.PhaseAlgorithms

	case spdm.PhaseAlgorithms:
		if hdr.Code != spdm.CodeAlgorithms {
			return false, ErrUnexpectedResponse
		}
		resp, derr := message.DecodeAlgorithmsResponse(r)
		if derr != nil {
			return false, derr
		}
		s.algos = spdm.AlgorithmSelection{Asym: resp.Asym, Hash: resp.Hash}
		if s.cfg.Capabilities.Has(config.CapCert) {
			s.phase = spdm.PhaseDigests
		} else {
			s.phase = spdm.PhasePskExchange
		}

	case spdm.PhaseDigests:
		if hdr.Code != spdm.CodeDigests {
			return false, ErrUnexpectedResponse
		}
		resp, derr := message.DecodeDigestsResponse(r, s.deps.Digest.Size())
		if derr != nil {
			return false, derr
		}
		slotID, ferr := firstSetBit(resp.SlotMask)
		if ferr != nil {
			return false, ferr
		}
		s.certSlotID = slotID
		s.phase = spdm.PhaseCertificate

	case spdm.PhaseCertificate:
		if hdr.Code != spdm.CodeCertificate {
			return false, ErrUnexpectedResponse
		}
		resp, derr := message.DecodeCertificateResponse(r, len(s.certBuf)-s.certLen)
		if derr != nil {
			return false, derr
		}
		if int(resp.RemainderLength) > len(s.certBuf)-s.certLen-len(resp.CertChain) {
			return false, ErrCertTooLarge
		}
		copy(s.certBuf[s.certLen:], resp.CertChain)
		s.certLen += len(resp.CertChain)
		if resp.RemainderLength == 0 {
			s.phase = spdm.PhaseChallenge
		}

	case spdm.PhaseChallenge:
		if hdr.Code != spdm.CodeChallengeAuth {
			return false, ErrUnexpectedResponse
		}
		digestSize := s.deps.Digest.Size()
		resp, derr := message.DecodeChallengeAuthResponse(r, digestSize, s.cfg.MaxOpaqueDataSize, s.cfg.MaxSignatureSize)
		if derr != nil {
			return false, derr
		}

		leafKey, cerr := validateChain(s.certBuf[:s.certLen], s.deps.RootPublicKey, s.deps.Digest, s.deps.Verifier, s.cfg.MaxCertChainDepth)
		if cerr != nil {
			return false, cerr
		}

		// Signature is a BytesVar field: resp.Signature is only the
		// payload, so the transcript boundary must also drop its
		// 2-byte length prefix to match what the responder signed.
		partial := in[:len(in)-len(resp.Signature)-2]
		if aerr := s.transcript.Append(partial); aerr != nil {
			return false, aerr
		}
		sum, herr := s.transcript.Hash(s.deps.Digest, make([]byte, digestSize))
		if herr != nil {
			return false, herr
		}
		if verr := s.deps.Verifier.Verify(sum, resp.Signature, leafKey); verr != nil {
			return false, verr
		}
		s.leafKey = leafKey
		s.phase = spdm.PhaseSession
		return true, nil

	case spdm.PhasePskExchange:
		if hdr.Code != spdm.CodePskExchangeRsp {
			return false, ErrUnexpectedResponse
		}
		if _, derr := message.DecodePskExchangeRspResponse(r, s.deps.Digest.Size(), s.cfg.MaxOpaqueDataSize, s.cfg.MaxSignatureSize); derr != nil {
			return false, derr
		}
		s.phase = spdm.PhasePskFinish

	case spdm.PhasePskFinish:
		if hdr.Code != spdm.CodePskFinishRsp {
			return false, ErrUnexpectedResponse
		}
		if _, derr := message.DecodePskFinishRspResponse(r); derr != nil {
			return false, derr
		}
		s.phase = spdm.PhaseSession
		return true, nil

	default:
		return false, spdm.ErrWrongPhase
	}

	if aerr := s.transcript.Append(in); aerr != nil {
		return false, aerr
	}
	return false, nil
}

func firstSetBit(mask uint8) (uint8, error) {
	for i := uint8(0); i < 8; i++ {
		if mask&(1<<i) != 0 {
			return i, nil
		}
	}
	return 0, message.ErrNoSlotAdvertised
}

func (s *Engine) logf(format string, args ...interface{}) {
	if s.deps.Logger == nil {
		return
	}
	s.deps.Logger.Tracef(format, args...)
}
