package mocks

import (
	"fmt"

	"github.com/hollyoak/warden/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// It returns queued IDs first, then deterministic sequential ones.
type MockRandom struct {
	queued []string
	index  int
	serial int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// ID returns the next queued ID, or a deterministic fallback
func (r *MockRandom) ID(n int) string {
	if r.index < len(r.queued) {
		id := r.queued[r.index]
		r.index++
		return id
	}
	r.serial++
	return fmt.Sprintf("mock%08d", r.serial)
}

// QueueID adds values to the ID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.queued = append(r.queued, values...)
}
