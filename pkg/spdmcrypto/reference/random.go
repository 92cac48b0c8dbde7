package reference

import "crypto/rand"

// Random implements spdmcrypto.Random over crypto/rand.
type Random struct{}

// Read fills p with cryptographically secure random bytes.
func (Random) Read(p []byte) error {
	_, err := rand.Read(p)
	return err
}
