package sanctions

import (
	"context"
	"sync"
	"time"

	"github.com/hollyoak/warden/internal/dependencies/clock"
)

// DefaultRefreshMargin is how far ahead of actual expiry a cached token
// is treated as stale
const DefaultRefreshMargin = 60 * time.Second

// fetchFunc performs the client-credentials exchange and returns the
// access token and its lifetime
type fetchFunc func(ctx context.Context) (token string, expiresIn time.Duration, err error)

// TokenCache owns the shared access token for the external authority.
// The mutex is held across the refresh so concurrent callers share a
// single in-flight token request instead of issuing duplicates.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time

	clock  clock.Clock
	margin time.Duration
	fetch  fetchFunc
}

// NewTokenCache creates a token cache around the given exchange function
func NewTokenCache(clk clock.Clock, margin time.Duration, fetch fetchFunc) *TokenCache {
	if margin <= 0 {
		margin = DefaultRefreshMargin
	}
	return &TokenCache{
		clock:  clk,
		margin: margin,
		fetch:  fetch,
	}
}

// Get returns a valid token, refreshing transparently when the cached one
// is missing or within the refresh margin of expiry
func (c *TokenCache) Get(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.clock.Now().Add(c.margin).Before(c.expiresAt) {
		return c.token, nil
	}

	token, expiresIn, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.expiresAt = c.clock.Now().Add(expiresIn)
	return c.token, nil
}

// Invalidate discards the cached token, forcing the next Get to refresh.
// Used when the authority rejects a token before its advertised expiry.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}
