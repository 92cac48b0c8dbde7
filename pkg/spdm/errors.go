// Package spdm holds the protocol concepts shared by both the
// requester and responder state machines: roles, versions,
// capabilities, algorithm negotiation, phases, and nonces.
package spdm

import "errors"

// Protocol errors. Every one of these drives the owning endpoint to
// Terminal; none are locally recoverable.
var (
	ErrUnexpectedRequest  = errors.New("spdm: unexpected request for current phase")
	ErrVersionMismatch    = errors.New("spdm: no common protocol version")
	ErrCapabilityMismatch = errors.New("spdm: required capability not supported by peer")
	ErrAlgorithmMismatch  = errors.New("spdm: no common algorithm selection")
	ErrWrongPhase         = errors.New("spdm: operation not valid in current phase")
)
