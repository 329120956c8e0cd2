package random

import (
	"crypto/rand"
	"encoding/hex"
)

// Random provides identifier generation that can be mocked for testing
type Random interface {
	// ID generates a random lowercase hex string of the given byte length
	ID(bytes int) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// ID generates a random hex identifier from n random bytes
func (r *CryptoRandom) ID(n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		return ""
	}
	return hex.EncodeToString(buf)
}
