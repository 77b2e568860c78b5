package common

import (
	"crypto/rand"
)

// GenerateRandByteArray returns n cryptographically random bytes.
// A failure to obtain randomness is returned to the caller and must abort
// the operation that requested it; there is no weaker fallback.
func GenerateRandByteArray(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Useful for removing passwords or key material from memory after
// use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
