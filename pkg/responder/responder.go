// Package responder implements the SPDM responder state machine: the
// side of the protocol that answers a requester's initialization
// sequence and, past that, its GET_MEASUREMENTS requests. No other
// request is accepted once initialization has completed.
package responder

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/spdm-embedded/spdm-go/pkg/config"
	"github.com/spdm-embedded/spdm-go/pkg/slot"
	"github.com/spdm-embedded/spdm-go/pkg/spdm"
	"github.com/spdm-embedded/spdm-go/pkg/spdm/message"
	"github.com/spdm-embedded/spdm-go/pkg/spdmcrypto"
	"github.com/spdm-embedded/spdm-go/pkg/transcript"
	"github.com/spdm-embedded/spdm-go/pkg/wire"
)

// Deps bundles the synchronous crypto and randomness providers the
// responder calls out to. As in pkg/requester, Digest is assumed to
// already implement whatever hash algorithm cfg.Hash's highest
// priority entry names; this engine does not switch hash
// implementations per negotiation outcome.
type Deps struct {
	Digest spdmcrypto.Digest
	Signer spdmcrypto.Signer
	Random spdmcrypto.Random
	Logger logging.LeveledLogger
}

// Responder drives SPDM initialization and measurement retrieval from
// the responder side. A single HandleMessage call consumes one
// inbound request and produces, at most, one outbound reply.
type Responder struct {
	cfg               *config.Config
	deps              Deps
	supportedVersions []spdm.Version
	slots             *slot.Table

	phase             spdm.Phase
	negotiatedVersion spdm.Version
	algos             spdm.AlgorithmSelection

	transcript *transcript.Buffer

	certSlotID uint8

	zeroDigest  []byte
	sigScratch  []byte
	hashScratch []byte
}

// New constructs a Responder. cfg must already have had ApplyDefaults
// and Validate called. slots holds whatever certificate chains this
// endpoint has been provisioned with; it may be nil when cfg only
// enables the PSK path.
func New(cfg *config.Config, versions []spdm.Version, slots *slot.Table, deps Deps) *Responder {
	return &Responder{
		cfg:               cfg,
		deps:              deps,
		supportedVersions: versions,
		slots:             slots,
		phase:             spdm.PhaseVersion,
		transcript:        transcript.New(make([]byte, cfg.TranscriptSize)),
		zeroDigest:        make([]byte, cfg.MaxDigestSize),
		sigScratch:        make([]byte, cfg.MaxSignatureSize),
		hashScratch:       make([]byte, cfg.MaxDigestSize),
	}
}

// Phase reports the responder's current phase.
func (s *Responder) Phase() spdm.Phase { return s.phase }

// MessagePermitted reports whether code is the one request this
// responder will accept while in phase. Anything else draws an
// ERROR(UnexpectedRequest) reply.
func MessagePermitted(phase spdm.Phase, code spdm.Code) bool {
	switch phase {
	case spdm.PhaseVersion:
		return code == spdm.CodeGetVersion
	case spdm.PhaseCapabilities:
		return code == spdm.CodeGetCapabilities
	case spdm.PhaseAlgorithms:
		return code == spdm.CodeNegotiateAlgorithms
	case spdm.PhaseDigests:
		return code == spdm.CodeGetDigests
	case spdm.PhaseCertificate:
		return code == spdm.CodeGetCertificate
	case spdm.PhaseChallenge:
		return code == spdm.CodeChallenge
	case spdm.PhasePskExchange:
		return code == spdm.CodePskExchange
	case spdm.PhasePskFinish:
		return code == spdm.CodePskFinish
	case spdm.PhaseSession:
		return code == spdm.CodeGetMeasurements
	default:
		return false
	}
}

// HandleMessage parses in, validates it against the current phase,
// and encodes the reply into out. written is non-empty exactly when
// there is something to send back, mirroring how a nil reply signals
// "nothing to transmit" in the teacher's route-dispatch style.
func (s *Responder) HandleMessage(in, out []byte) (written []byte, err error) {
	if s.phase.Terminal() {
		return nil, spdm.ErrWrongPhase
	}

	r := wire.NewReader(in)
	hdr, err := message.DecodeHeader(r)
	if err != nil {
		s.phase = spdm.PhaseTerminal
		return nil, err
	}

	if !MessagePermitted(s.phase, hdr.Code) {
		written, encErr := s.encodeError(out, spdm.ErrorCodeUnexpectedRequest)
		s.phase = spdm.PhaseTerminal
		if encErr != nil {
			return nil, encErr
		}
		return written, spdm.ErrUnexpectedRequest
	}

	switch s.phase {
	case spdm.PhaseVersion:
		return s.handleVersion(r, in, out)
	case spdm.PhaseCapabilities:
		return s.handleCapabilities(r, in, out)
	case spdm.PhaseAlgorithms:
		return s.handleAlgorithms(r, in, out)
	case spdm.PhaseDigests:
		return s.handleDigests(r, in, out)
	case spdm.PhaseCertificate:
		return s.handleCertificate(r, in, out)
	case spdm.PhaseChallenge:
		return s.handleChallenge(r, in, out)
	case spdm.PhasePskExchange:
		return s.handlePskExchange(r, in, out)
	case spdm.PhasePskFinish:
		return s.handlePskFinish(r, in, out)
	case spdm.PhaseSession:
		return s.handleMeasurements(r, in, out)
	default:
		s.phase = spdm.PhaseTerminal
		return nil, spdm.ErrWrongPhase
	}
}

func (s *Responder) handleVersion(r *wire.Reader, in, out []byte) ([]byte, error) {
	if _, err := message.DecodeGetVersionRequest(r); err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(in); err != nil {
		return s.fail(err)
	}

	highest := highestVersion(s.supportedVersions)
	s.negotiatedVersion = highest

	w := wire.NewWriter(out)
	resp := message.VersionResponse{Versions: s.supportedVersions}
	written, err := resp.Encode(w, highest)
	if err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(written); err != nil {
		return s.fail(err)
	}
	s.phase = spdm.PhaseCapabilities
	return written, nil
}

func (s *Responder) handleCapabilities(r *wire.Reader, in, out []byte) ([]byte, error) {
	req, err := message.DecodeGetCapabilitiesRequest(r)
	if err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(in); err != nil {
		return s.fail(err)
	}

	w := wire.NewWriter(out)
	resp := message.CapabilitiesResponse{CTExponent: req.CTExponent, Capabilities: s.cfg.Capabilities}
	written, err := resp.Encode(w, s.negotiatedVersion)
	if err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(written); err != nil {
		return s.fail(err)
	}
	s.phase = spdm.PhaseAlgorithms
	return written, nil
}

func (s *Responder) handleAlgorithms(r *wire.Reader, in, out []byte) ([]byte, error) {
	req, err := message.DecodeNegotiateAlgorithmsRequest(r)
	if err != nil {
		return s.fail(err)
	}

	algos, nerr := spdm.Negotiate(s.cfg, req.AsymmetricSigning, req.Hash)
	if nerr != nil {
		written, encErr := s.encodeError(out, spdm.ErrorCodeAlgorithmMismatch)
		s.phase = spdm.PhaseTerminal
		if encErr != nil {
			return nil, encErr
		}
		return written, nerr
	}
	s.algos = algos

	if err := s.transcript.Append(in); err != nil {
		return s.fail(err)
	}

	w := wire.NewWriter(out)
	resp := message.AlgorithmsResponse{Asym: algos.Asym, Hash: algos.Hash}
	written, err := resp.Encode(w, s.negotiatedVersion)
	if err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(written); err != nil {
		return s.fail(err)
	}

	if s.cfg.Capabilities.Has(config.CapCert) {
		s.phase = spdm.PhaseDigests
	} else {
		s.phase = spdm.PhasePskExchange
	}
	return written, nil
}

func (s *Responder) handleDigests(r *wire.Reader, in, out []byte) ([]byte, error) {
	if _, err := message.DecodeGetDigestsRequest(r); err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(in); err != nil {
		return s.fail(err)
	}

	var mask uint8
	var digests [][]byte
	for i := 0; i < s.slots.NumSlots(); i++ {
		sl, err := s.slots.Select(i)
		if err != nil {
			continue
		}
		d, derr := s.chainDigest(sl.Chain())
		if derr != nil {
			return s.fail(derr)
		}
		mask |= 1 << uint(i)
		digests = append(digests, d)
	}

	w := wire.NewWriter(out)
	resp := message.DigestsResponse{SlotMask: mask, Digests: digests}
	written, err := resp.Encode(w, s.negotiatedVersion)
	if err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(written); err != nil {
		return s.fail(err)
	}
	s.phase = spdm.PhaseCertificate
	return written, nil
}

func (s *Responder) handleCertificate(r *wire.Reader, in, out []byte) ([]byte, error) {
	req, err := message.DecodeGetCertificateRequest(r)
	if err != nil {
		return s.fail(err)
	}

	sl, serr := s.slots.Select(int(req.SlotID))
	if serr != nil {
		written, encErr := s.encodeError(out, spdm.ErrorCodeInvalidRequest)
		s.phase = spdm.PhaseTerminal
		if encErr != nil {
			return nil, encErr
		}
		return written, fmt.Errorf("%w: %w", ErrNoSlotConfigured, serr)
	}

	if err := s.transcript.Append(in); err != nil {
		return s.fail(err)
	}

	chain := sl.Chain()
	offset := int(req.Offset)
	if offset > len(chain) {
		return s.fail(wire.ErrUnexpectedValue)
	}
	end := offset + int(req.Length)
	if end > len(chain) {
		end = len(chain)
	}
	portion := chain[offset:end]
	remainder := len(chain) - end

	s.certSlotID = req.SlotID
	w := wire.NewWriter(out)
	resp := message.CertificateResponse{
		SlotID:          req.SlotID,
		PortionLength:   uint16(len(portion)),
		RemainderLength: uint16(remainder),
		CertChain:       portion,
	}
	written, err := resp.Encode(w, s.negotiatedVersion)
	if err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(written); err != nil {
		return s.fail(err)
	}
	if remainder == 0 {
		s.phase = spdm.PhaseChallenge
	}
	return written, nil
}

// handleChallenge signs the hash of the transcript up to and
// including every CHALLENGE_AUTH byte except the signature field
// itself. The signature is appended to the outbound buffer after
// signing but is deliberately not folded back into the transcript,
// mirroring the exclusion on the requester's verifying side.
func (s *Responder) handleChallenge(r *wire.Reader, in, out []byte) ([]byte, error) {
	req, err := message.DecodeChallengeRequest(r)
	if err != nil {
		return s.fail(err)
	}

	sl, serr := s.slots.Select(int(req.SlotID))
	if serr != nil {
		written, encErr := s.encodeError(out, spdm.ErrorCodeInvalidRequest)
		s.phase = spdm.PhaseTerminal
		if encErr != nil {
			return nil, encErr
		}
		return written, fmt.Errorf("%w: %w", ErrNoSlotConfigured, serr)
	}

	if err := s.transcript.Append(in); err != nil {
		return s.fail(err)
	}

	ownNonce, rerr := spdm.NewNonce(s.deps.Random)
	if rerr != nil {
		return s.fail(rerr)
	}

	w := wire.NewWriter(out)
	start := w.Len()
	if err := (message.Header{Version: s.negotiatedVersion, Code: spdm.CodeChallengeAuth}).Encode(w); err != nil {
		return s.fail(err)
	}
	if err := w.PutUint8(req.SlotID); err != nil {
		return s.fail(err)
	}
	if err := w.PutReserved(1); err != nil {
		return s.fail(err)
	}
	certHash, cherr := s.chainDigest(sl.Chain())
	if cherr != nil {
		return s.fail(cherr)
	}
	if err := w.PutBytesFixed(certHash); err != nil {
		return s.fail(err)
	}
	if err := w.PutBytesFixed(ownNonce[:]); err != nil {
		return s.fail(err)
	}
	digestSize := s.deps.Digest.Size()
	if err := w.PutBytesFixed(s.zeroDigest[:digestSize]); err != nil {
		return s.fail(err)
	}
	if err := w.PutBytesVar(nil); err != nil { // opaque data
		return s.fail(err)
	}

	partial := w.Written()[start:]
	if err := s.transcript.Append(partial); err != nil {
		return s.fail(err)
	}
	sum, herr := s.transcript.Hash(s.deps.Digest, s.hashScratch)
	if herr != nil {
		return s.fail(herr)
	}
	sig, serr2 := s.deps.Signer.Sign(sum, s.sigScratch)
	if serr2 != nil {
		return s.fail(serr2)
	}
	if err := w.PutBytesVar(sig); err != nil {
		return s.fail(err)
	}

	s.phase = spdm.PhaseSession
	return w.Written()[start:], nil
}

func (s *Responder) handlePskExchange(r *wire.Reader, in, out []byte) ([]byte, error) {
	if _, err := message.DecodePskExchangeRequest(r, s.cfg.MaxOpaqueDataSize); err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(in); err != nil {
		return s.fail(err)
	}

	var ownContext [message.ContextSize]byte
	if err := s.deps.Random.Read(ownContext[:]); err != nil {
		return s.fail(err)
	}

	digestSize := s.deps.Digest.Size()
	sum, herr := s.transcript.Hash(s.deps.Digest, s.hashScratch)
	if herr != nil {
		return s.fail(herr)
	}

	w := wire.NewWriter(out)
	resp := message.PskExchangeRspResponse{
		ResponderContext:       ownContext,
		MeasurementSummaryHash: s.zeroDigest[:digestSize],
		OpaqueData:             nil,
		ResponderVerifyData:    sum,
	}
	written, err := resp.Encode(w, s.negotiatedVersion)
	if err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(written); err != nil {
		return s.fail(err)
	}
	s.phase = spdm.PhasePskFinish
	return written, nil
}

func (s *Responder) handlePskFinish(r *wire.Reader, in, out []byte) ([]byte, error) {
	digestSize := s.deps.Digest.Size()
	if _, err := message.DecodePskFinishRequest(r, digestSize); err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(in); err != nil {
		return s.fail(err)
	}

	w := wire.NewWriter(out)
	resp := message.PskFinishRspResponse{}
	written, err := resp.Encode(w, s.negotiatedVersion)
	if err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(written); err != nil {
		return s.fail(err)
	}
	s.phase = spdm.PhaseSession
	return written, nil
}

func (s *Responder) handleMeasurements(r *wire.Reader, in, out []byte) ([]byte, error) {
	req, err := message.DecodeGetMeasurementsRequest(r)
	if err != nil {
		return s.fail(err)
	}
	if err := s.transcript.Append(in); err != nil {
		return s.fail(err)
	}

	w := wire.NewWriter(out)
	start := w.Len()
	if err := (message.Header{Version: s.negotiatedVersion, Code: spdm.CodeMeasurements}).Encode(w); err != nil {
		return s.fail(err)
	}
	if err := w.PutUint8(0); err != nil { // NumberOfBlocks: none provisioned
		return s.fail(err)
	}
	if err := w.PutReserved(1); err != nil {
		return s.fail(err)
	}
	if err := w.PutBytesVar(nil); err != nil { // record
		return s.fail(err)
	}
	if err := w.PutBytesFixed(req.Nonce[:]); err != nil {
		return s.fail(err)
	}
	if err := w.PutBytesVar(nil); err != nil { // opaque data
		return s.fail(err)
	}

	if req.Attributes&message.RequestSignature == 0 {
		if err := w.PutBytesVar(nil); err != nil { // empty signature
			return s.fail(err)
		}
		written := w.Written()[start:]
		if err := s.transcript.Append(written); err != nil {
			return s.fail(err)
		}
		return written, nil
	}

	partial := w.Written()[start:]
	if err := s.transcript.Append(partial); err != nil {
		return s.fail(err)
	}
	sum, herr := s.transcript.Hash(s.deps.Digest, s.hashScratch)
	if herr != nil {
		return s.fail(herr)
	}
	sig, serr := s.deps.Signer.Sign(sum, s.sigScratch)
	if serr != nil {
		return s.fail(serr)
	}
	if err := w.PutBytesVar(sig); err != nil {
		return s.fail(err)
	}
	return w.Written()[start:], nil
}

func (s *Responder) chainDigest(chain []byte) ([]byte, error) {
	state := s.deps.Digest.New()
	if _, err := state.Write(chain); err != nil {
		return nil, err
	}
	return state.Sum(nil), nil
}

func (s *Responder) encodeError(out []byte, code spdm.ErrorCode) ([]byte, error) {
	w := wire.NewWriter(out)
	resp := message.ErrorResponse{ErrorCode: code}
	return resp.Encode(w, s.negotiatedVersion)
}

func (s *Responder) fail(err error) ([]byte, error) {
	s.phase = spdm.PhaseTerminal
	return nil, err
}

func highestVersion(versions []spdm.Version) spdm.Version {
	best := spdm.Version{}
	for _, v := range versions {
		if best.Less(v) {
			best = v
		}
	}
	return best
}
