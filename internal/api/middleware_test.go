package api

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestLimiter(clock *fakeClock) *ipRateLimiter {
	rl := newIPRateLimiter(rate.Every(2*time.Second), 15)
	rl.now = clock.now
	return rl
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := newTestLimiter(clock)

	for i := 0; i < 10_000; i++ {
		rl.allow(fmt.Sprintf("2001:db8::%x", i))
	}
	require.Equal(t, 10_000, rl.size())

	clock.t = clock.t.Add(rl.idleTTL)
	require.True(t, rl.allow("203.0.113.7"))
	require.Equal(t, 1, rl.size())
}

func TestIPRateLimiter_KeepsActiveClients(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := newTestLimiter(clock)

	for i := 0; i < 15; i++ {
		require.True(t, rl.allow("198.51.100.1"))
	}
	require.False(t, rl.allow("198.51.100.1"))

	clock.t = clock.t.Add(rl.idleTTL - time.Second)
	rl.allow("198.51.100.2")
	require.Equal(t, 2, rl.size())

	// only the client idle for a full window is dropped
	clock.t = clock.t.Add(time.Second)
	rl.allow("198.51.100.3")
	require.Equal(t, 2, rl.size())
	_, kept := rl.limiters["198.51.100.2"]
	require.True(t, kept)
}

func TestNewIPRateLimiter_IdleTTLCoversRefill(t *testing.T) {
	rl := newIPRateLimiter(rate.Every(time.Minute), 5)
	require.InDelta(t, float64(5*time.Minute), float64(rl.idleTTL), float64(time.Millisecond))

	rl = newIPRateLimiter(rate.Every(time.Second), 2)
	require.Equal(t, time.Minute, rl.idleTTL)
}
