package responder

import "errors"

var (
	// ErrNoSlotConfigured is returned when a request targets a slot the
	// responder has not had a certificate chain provisioned into. The
	// returned error also wraps the pkg/slot error that Select reported.
	ErrNoSlotConfigured = errors.New("responder: requested slot has no certificate chain")

	// ErrSessionNotEstablished names the state in which no secure
	// session exists. No Responder method returns it: the responder has
	// no secure-messaging transport, and in the Session phase any request
	// other than GET_MEASUREMENTS draws ERROR(UnexpectedRequest).
	ErrSessionNotEstablished = errors.New("responder: secure session not yet established")
)
