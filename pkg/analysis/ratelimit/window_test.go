package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryWindowAllowsUpToCapacity(t *testing.T) {
	w := NewMemoryWindow(5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, _, err := w.Allow(ctx, "client-a")
		assert.NoError(t, err)
		assert.True(t, ok, "request %d should be admitted", i+1)
	}

	ok, retryAfter, err := w.Allow(ctx, "client-a")
	assert.NoError(t, err)
	assert.False(t, ok, "request N+1 must be denied")
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestMemoryWindowIsolatesClients(t *testing.T) {
	w := NewMemoryWindow(1, time.Minute)
	ctx := context.Background()

	ok, _, _ := w.Allow(ctx, "client-a")
	assert.True(t, ok)

	ok, _, _ = w.Allow(ctx, "client-b")
	assert.True(t, ok, "saturating one client must not affect another")

	ok, _, _ = w.Allow(ctx, "client-a")
	assert.False(t, ok)
}

func TestMemoryWindowSlides(t *testing.T) {
	w := NewMemoryWindow(2, time.Minute)
	ctx := context.Background()

	current := time.Now()
	w.now = func() time.Time { return current }

	ok, _, _ := w.Allow(ctx, "c")
	assert.True(t, ok)
	ok, _, _ = w.Allow(ctx, "c")
	assert.True(t, ok)
	ok, _, _ = w.Allow(ctx, "c")
	assert.False(t, ok)

	// first request falls out of the window
	current = current.Add(61 * time.Second)
	ok, _, _ = w.Allow(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryWindowRetryAfterMatchesOldest(t *testing.T) {
	w := NewMemoryWindow(1, time.Minute)
	ctx := context.Background()

	current := time.Now()
	w.now = func() time.Time { return current }

	ok, _, _ := w.Allow(ctx, "c")
	assert.True(t, ok)

	current = current.Add(20 * time.Second)
	ok, retryAfter, _ := w.Allow(ctx, "c")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retryAfter)
}

func TestRedisWindowMembersUniqueUnderContention(t *testing.T) {
	w := NewRedisWindow(nil, 10, time.Minute)

	// Same nanosecond from every goroutine: the counter alone must keep
	// members distinct, or concurrent admissions collapse in the ZSET.
	nowNano := time.Now().UnixNano()

	const n = 64
	members := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			members <- w.nextMember(nowNano)
		}()
	}
	wg.Wait()
	close(members)

	seen := make(map[string]struct{}, n)
	for m := range members {
		seen[m] = struct{}{}
	}
	assert.Len(t, seen, n, "every concurrent admission needs its own member")
}

func TestMemoryWindowConcurrentAccess(t *testing.T) {
	w := NewMemoryWindow(50, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	admitted := make(chan struct{}, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _, _ := w.Allow(ctx, "hot-key"); ok {
				admitted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(admitted)

	var count int
	for range admitted {
		count++
	}
	assert.Equal(t, 50, count, "exactly capacity admissions under contention")
}
