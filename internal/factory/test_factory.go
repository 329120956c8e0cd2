package factory

import (
	"time"

	"github.com/hollyoak/warden/internal/dependencies/mocks"
	"github.com/hollyoak/warden/internal/storage/memory"
	"github.com/hollyoak/warden/internal/testutil"
)

// NewForTest wires an App over in-memory storage with a controllable
// clock and deterministic IDs
func NewForTest(cfg Config) (*App, *mocks.MockClock) {
	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	logger := cfg.Logger
	if logger == nil {
		logger = testutil.NopLogger()
	}
	app := newWithDependencies(memory.New(), clk, mocks.NewMockRandom(), cfg, logger)
	return app, clk
}
