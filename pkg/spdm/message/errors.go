package message

import "errors"

// ErrNoSlotAdvertised is returned when a DIGESTS response's slot mask
// has no bits set, leaving the requester nothing to request a
// certificate chain for.
var ErrNoSlotAdvertised = errors.New("message: no slot advertised in digests response")
