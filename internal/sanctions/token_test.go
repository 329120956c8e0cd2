package sanctions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollyoak/warden/internal/dependencies/mocks"
)

// countingFetch hands out sequential tokens and counts exchanges
type countingFetch struct {
	mu        sync.Mutex
	calls     int
	expiresIn time.Duration
	err       error
}

func (f *countingFetch) fetch(ctx context.Context) (string, time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", 0, f.err
	}
	f.calls++
	return fmt.Sprintf("token-%d", f.calls), f.expiresIn, nil
}

func (f *countingFetch) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestTokenCacheReusesValidToken(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	fetch := &countingFetch{expiresIn: time.Hour}
	cache := NewTokenCache(clk, time.Minute, fetch.fetch)

	for i := 0; i < 5; i++ {
		token, err := cache.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-1", token)
	}
	assert.Equal(t, 1, fetch.count())
}

func TestTokenCacheRefreshesAtMargin(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	fetch := &countingFetch{expiresIn: time.Hour}
	cache := NewTokenCache(clk, time.Minute, fetch.fetch)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	// Still comfortably inside the lifetime
	clk.Advance(58 * time.Minute)
	token, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	// Within the refresh margin of expiry
	clk.Advance(90 * time.Second)
	token, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
	assert.Equal(t, 2, fetch.count())
}

func TestTokenCacheInvalidateForcesRefresh(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	fetch := &countingFetch{expiresIn: time.Hour}
	cache := NewTokenCache(clk, time.Minute, fetch.fetch)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	cache.Invalidate()

	token, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
}

func TestTokenCachePropagatesExchangeFailure(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	fetch := &countingFetch{err: errors.New("exchange refused")}
	cache := NewTokenCache(clk, time.Minute, fetch.fetch)

	_, err := cache.Get(context.Background())
	assert.Error(t, err)
}

func TestTokenCacheConcurrentGetsShareOneExchange(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	fetch := &countingFetch{expiresIn: time.Hour}
	cache := NewTokenCache(clk, time.Minute, fetch.fetch)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := cache.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "token-1", token)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fetch.count())
}
