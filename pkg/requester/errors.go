package requester

import "errors"

var (
	// ErrSessionNotEstablished is returned by the Session typestate's
	// secure-messaging operations until the Session phase (key
	// exchange / PSK finish) has completed. The phase is reserved in
	// the state graph but not yet implemented.
	ErrSessionNotEstablished = errors.New("requester: secure session not yet established")

	// ErrAlreadyInitialized is returned by Init methods after
	// HandleMessage has already reported initialization complete.
	ErrAlreadyInitialized = errors.New("requester: initialization already complete")

	// ErrUnexpectedResponse is returned when a decoded response's code
	// does not match what the current phase expects.
	ErrUnexpectedResponse = errors.New("requester: unexpected response code for current phase")

	// ErrCertTooLarge is returned when a CERTIFICATE response's
	// RemainderLength claims more trailing chain bytes than still fit
	// in the slot's configured certificate buffer. The chain is
	// aborted rather than reassembled past the caller-owned buffer.
	ErrCertTooLarge = errors.New("requester: certificate chain exceeds configured buffer")
)
