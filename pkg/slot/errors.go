package slot

import "errors"

var (
	ErrSlotIndexOutOfRange = errors.New("slot: index out of range")
	ErrSlotEmpty           = errors.New("slot: slot is empty")
	ErrCertTooLarge        = errors.New("slot: certificate chain exceeds slot buffer")
)
