package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	window := 10 * time.Second

	newLimiter := func(max int) (*MemoryLimiter, *time.Time) {
		current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		l := NewMemoryLimiter(window, max)
		l.now = func() time.Time { return current }
		return l, &current
	}

	t.Run("allows max hits then trips", func(t *testing.T) {
		l, _ := newLimiter(3)

		var got []bool
		for i := 0; i < 4; i++ {
			got = append(got, l.Exceeded(ctx, "client"))
		}
		require.Equal(t, []bool{false, false, false, true}, got)
	})

	t.Run("resets after the window lapses", func(t *testing.T) {
		l, clock := newLimiter(3)

		for i := 0; i < 4; i++ {
			l.Exceeded(ctx, "client")
		}
		require.True(t, l.Exceeded(ctx, "client"))

		*clock = clock.Add(window + time.Second)
		require.False(t, l.Exceeded(ctx, "client"))
	})

	t.Run("window does not extend on later hits", func(t *testing.T) {
		l, clock := newLimiter(1)

		require.False(t, l.Exceeded(ctx, "client"))
		*clock = clock.Add(window - time.Second)
		require.True(t, l.Exceeded(ctx, "client"), "still inside the original window")
		*clock = clock.Add(2 * time.Second)
		require.False(t, l.Exceeded(ctx, "client"), "window anchored at the first hit")
	})

	t.Run("keys are independent", func(t *testing.T) {
		l, _ := newLimiter(1)

		require.False(t, l.Exceeded(ctx, "a"))
		require.True(t, l.Exceeded(ctx, "a"))
		require.False(t, l.Exceeded(ctx, "b"))
	})

	t.Run("cleanup purges lapsed entries only", func(t *testing.T) {
		l, clock := newLimiter(3)

		l.Exceeded(ctx, "old")
		*clock = clock.Add(window + time.Second)
		l.Exceeded(ctx, "fresh")

		l.Cleanup()

		l.mu.Lock()
		defer l.mu.Unlock()
		require.NotContains(t, l.hits, "old")
		require.Contains(t, l.hits, "fresh")
	})
}
