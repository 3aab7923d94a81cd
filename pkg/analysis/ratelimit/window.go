package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Window is per-client admission control: capacity N requests over
// duration W, sliding. Allow reports whether the client may proceed and,
// when denied, how long until the oldest request falls out of the window.
type Window interface {
	Allow(ctx context.Context, clientKey string) (ok bool, retryAfter time.Duration, err error)
}

// MemoryWindow tracks per-key request timestamps in-process. Windows are
// created lazily on first request, trimmed on every call, and never
// persisted across restarts.
type MemoryWindow struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	hits     map[string][]time.Time
	now      func() time.Time
}

func NewMemoryWindow(capacity int, window time.Duration) *MemoryWindow {
	return &MemoryWindow{
		capacity: capacity,
		window:   window,
		hits:     make(map[string][]time.Time),
		now:      time.Now,
	}
}

func (w *MemoryWindow) Allow(_ context.Context, clientKey string) (bool, time.Duration, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	cutoff := now.Add(-w.window)

	hits := w.hits[clientKey]
	trimmed := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			trimmed = append(trimmed, t)
		}
	}

	if len(trimmed) >= w.capacity {
		w.hits[clientKey] = trimmed
		retryAfter := trimmed[0].Add(w.window).Sub(now)
		return false, retryAfter, nil
	}

	w.hits[clientKey] = append(trimmed, now)
	return true, 0, nil
}
