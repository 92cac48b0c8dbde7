package config

import "errors"

// ErrInvalidConfig is returned by Validate when a Config value
// violates one of the engine's structural invariants.
var ErrInvalidConfig = errors.New("config: invalid configuration")
