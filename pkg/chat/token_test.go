package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
)

func TestTokenCache_refreshOnExpiry(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	clock := quartz.NewMock(t)

	fetches := 0
	cache := newTokenCache(clock, func(context.Context) (string, time.Duration, error) {
		fetches++
		return fmt.Sprintf("token-%d", fetches), 2 * time.Hour, nil
	})

	token, err := cache.get(ctx)
	a.NoError(err)
	a.Equal("token-1", token)

	// still fresh, no refetch
	clock.Advance(time.Hour)
	token, err = cache.get(ctx)
	a.NoError(err)
	a.Equal("token-1", token)
	a.Equal(1, fetches)

	// within the refresh margin of expiry
	clock.Advance(59*time.Minute + 30*time.Second)
	token, err = cache.get(ctx)
	a.NoError(err)
	a.Equal("token-2", token)
	a.Equal(2, fetches)
}

func TestTokenCache_fetchFailure(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	clock := quartz.NewMock(t)
	boom := errors.New("upstream down")

	fail := true
	cache := newTokenCache(clock, func(context.Context) (string, time.Duration, error) {
		if fail {
			return "", 0, boom
		}

		return "token", time.Hour, nil
	})

	_, err := cache.get(ctx)
	a.Equal(boom, err)

	// a later call retries instead of caching the failure
	fail = false
	token, err := cache.get(ctx)
	a.NoError(err)
	a.Equal("token", token)
}
