package chat

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// refreshMargin renews a token slightly before the platform expires it so an
// in-flight request never carries a token at its deadline
const refreshMargin = time.Minute

// fetchToken obtains a fresh credential and its lifetime
type fetchToken func(ctx context.Context) (token string, ttl time.Duration, err error)

// tokenCache is an explicit expiring credential cache. The token is owned
// here and nowhere else; callers always go through get.
type tokenCache struct {
	clock quartz.Clock
	fetch fetchToken

	mu      sync.Mutex
	token   string
	expires time.Time
}

func newTokenCache(clock quartz.Clock, fetch fetchToken) *tokenCache {
	return &tokenCache{
		clock: clock,
		fetch: fetch,
	}
}

// get returns the cached token, refreshing it when missing or about to
// expire
func (c *tokenCache) get(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.token != "" && now.Add(refreshMargin).Before(c.expires) {
		return c.token, nil
	}

	token, ttl, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.expires = now.Add(ttl)

	return token, nil
}
