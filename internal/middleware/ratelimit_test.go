package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsWithinWindow(t *testing.T) {
	rl := NewRateLimiter(3)
	now := time.Now()

	for i := 0; i < 3; i++ {
		require.True(t, rl.allow("10.0.0.1", now))
	}
	require.False(t, rl.allow("10.0.0.1", now))

	// Another client has its own window.
	require.True(t, rl.allow("10.0.0.2", now))
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1)
	now := time.Now()

	require.True(t, rl.allow("10.0.0.1", now))
	require.False(t, rl.allow("10.0.0.1", now.Add(30*time.Second)))
	require.True(t, rl.allow("10.0.0.1", now.Add(time.Minute)))
}

func TestRateLimiterDisabled(t *testing.T) {
	require.Nil(t, NewRateLimiter(0))
}
