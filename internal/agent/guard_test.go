package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formAgent/internal/browser"
)

func TestCheckURL(t *testing.T) {
	assert.NoError(t, checkURL("https://shop.test/contact", false))
	assert.NoError(t, checkURL("http://localhost:8080/login", false))
	assert.NoError(t, checkURL("https://example.com/administration", false))

	assert.ErrorIs(t, checkURL("https://example.com/wp-admin/", false), ErrBlockedURL)
	assert.ErrorIs(t, checkURL("https://example.com/Admin", true), ErrBlockedURL)
	assert.ErrorIs(t, checkURL("ftp://example.com/", false), ErrBlockedURL)

	assert.ErrorIs(t, checkURL("https://online.sberbank.ru/login", false), ErrCriticalDomain)
	assert.NoError(t, checkURL("https://online.sberbank.ru/login", true))
	assert.NoError(t, checkURL("https://notpaypal.com/", false))
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewCircuitBreaker(2, time.Minute)
	cb.now = func() time.Time { return now }

	fail := func() error { return browser.ErrWaitTimeout }
	calls := 0
	ok := func() error { calls++; return nil }

	assert.Error(t, cb.Call(fail))
	assert.Equal(t, StateClosed, cb.State())
	assert.Error(t, cb.Call(fail))
	assert.Equal(t, StateOpen, cb.State())

	assert.ErrorIs(t, cb.Call(ok), ErrCircuitOpen)
	assert.Zero(t, calls)

	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Call(ok))
	assert.Equal(t, 1, calls)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerIgnoresCriticalErrors(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)

	assert.ErrorIs(t, cb.Call(func() error { return browser.ErrRouteNotFound }), browser.ErrRouteNotFound)
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerPoolPerHost(t *testing.T) {
	pool := newBreakerPool(1, time.Minute)

	a := pool.forURL("https://a.test/login")
	assert.Same(t, a, pool.forURL("https://A.test/contact"))
	assert.NotSame(t, a, pool.forURL("https://b.test/"))
}
