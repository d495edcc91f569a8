package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a fixed-window rate limiter keyed by an arbitrary string
// (client address for session creation, connection id for question
// submission). Exceeded reports whether the key is over its budget for the
// current window; every call counts as a hit.
type Limiter interface {
	Exceeded(ctx context.Context, key string) bool
}

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter tracks per-key hit counts in process memory. Safe for
// concurrent use. Entries whose window has passed are purged by Run.
type MemoryLimiter struct {
	window time.Duration
	max    int

	mu   sync.Mutex
	hits map[string]*entry

	now func() time.Time
}

func NewMemoryLimiter(window time.Duration, max int) *MemoryLimiter {
	return &MemoryLimiter{
		window: window,
		max:    max,
		hits:   make(map[string]*entry),
		now:    time.Now,
	}
}

// Exceeded records a hit for key and reports whether the count is over max.
// The first hit of a fresh or lapsed window resets the count to 1; the
// window never extends on later hits.
func (l *MemoryLimiter) Exceeded(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now()
	e, ok := l.hits[key]
	if !ok || !e.resetAt.After(ts) {
		l.hits[key] = &entry{count: 1, resetAt: ts.Add(l.window)}
		return false
	}

	e.count++
	return e.count > l.max
}

// Cleanup drops entries whose window has passed. Absent keys behave as zero
// hits, so dropping them does not change limiter decisions.
func (l *MemoryLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now()
	for key, e := range l.hits {
		if !e.resetAt.After(ts) {
			delete(l.hits, key)
		}
	}
}

// Run purges stale entries on a ticker tied to the window size until ctx is
// cancelled.
func (l *MemoryLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}
