package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRateLimiterRequests(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	rl := newRateLimiter(2, 1000, clock.now)
	ctx := context.Background()

	require.NoError(t, rl.AllowRequest(ctx))
	require.NoError(t, rl.AllowRequest(ctx))
	assert.Error(t, rl.AllowRequest(ctx))

	clock.advance(31 * time.Second)
	assert.NoError(t, rl.AllowRequest(ctx))
}

func TestRateLimiterTokens(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	rl := newRateLimiter(60, 3600, clock.now)
	ctx := context.Background()

	require.NoError(t, rl.AllowTokens(ctx, 3000))
	assert.Error(t, rl.AllowTokens(ctx, 1000))
	assert.Error(t, rl.AllowTokens(ctx, 5000))

	clock.advance(400 * time.Second)
	assert.NoError(t, rl.AllowTokens(ctx, 1000))

	rl.ConsumeTokens(10000)
	_, tokens := rl.GetStats()
	assert.Zero(t, tokens)
}

func TestRateLimiterCancelledContext(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, rl.AllowRequest(ctx), context.Canceled)

	requests, tokens := rl.GetStats()
	assert.Equal(t, 60, requests)
	assert.Equal(t, 90000, tokens)
}
