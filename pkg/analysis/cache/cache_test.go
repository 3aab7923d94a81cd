package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// failingStore simulates a backing store outage.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store unreachable")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("store unreachable")
}

func TestGetOrComputeMissThenHit(t *testing.T) {
	c := New(NewMemoryStore(time.Minute, time.Minute), time.Minute, nil)
	ctx := context.Background()

	var computes int
	compute := func(context.Context) ([]byte, error) {
		computes++
		return []byte(`{"specialty":"Cardiology"}`), nil
	}

	data, hit, err := c.GetOrCompute(ctx, "fp1", compute)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, computes)

	again, hit, err := c.GetOrCompute(ctx, "fp1", compute)
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, computes, "warm cache must not recompute")
	assert.Equal(t, data, again)
}

func TestGetOrComputeCollapsesConcurrentDuplicates(t *testing.T) {
	c := New(NewMemoryStore(time.Minute, time.Minute), time.Minute, nil)
	ctx := context.Background()

	var computes int32
	release := make(chan struct{})
	compute := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&computes, 1)
		<-release
		return []byte("result"), nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]byte, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, _, err := c.GetOrCompute(ctx, "same-fp", compute)
			assert.NoError(t, err)
			results[i] = data
		}(i)
	}

	time.Sleep(50 * time.Millisecond) // let every caller queue on the flight
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&computes), "at most one computation per fingerprint")
	for _, r := range results {
		assert.Equal(t, []byte("result"), r)
	}
}

func TestGetOrComputeDistinctKeysDoNotBlock(t *testing.T) {
	c := New(NewMemoryStore(time.Minute, time.Minute), time.Minute, nil)
	ctx := context.Background()

	var computes int32
	compute := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&computes, 1)
		return []byte("r"), nil
	}

	_, _, err := c.GetOrCompute(ctx, "a", compute)
	assert.NoError(t, err)
	_, _, err = c.GetOrCompute(ctx, "b", compute)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&computes))
}

func TestGetOrComputeStoreFailureFallsBackToCompute(t *testing.T) {
	c := New(failingStore{}, time.Minute, nil)
	ctx := context.Background()

	var computes int
	compute := func(context.Context) ([]byte, error) {
		computes++
		return []byte("fresh"), nil
	}

	data, hit, err := c.GetOrCompute(ctx, "fp", compute)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []byte("fresh"), data)
	assert.Equal(t, 1, computes)

	// store is still down, so the "cache" recomputes every time but keeps working
	_, _, err = c.GetOrCompute(ctx, "fp", compute)
	assert.NoError(t, err)
	assert.Equal(t, 2, computes)
}

func TestGetOrComputeComputeErrorPropagates(t *testing.T) {
	c := New(NewMemoryStore(time.Minute, time.Minute), time.Minute, nil)

	wantErr := errors.New("pipeline blew up")
	_, _, err := c.GetOrCompute(context.Background(), "fp", func(context.Context) ([]byte, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestGetOrComputeSkipsStoreOnCancelledContext(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Minute)
	c := New(store, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	_, _, err := c.GetOrCompute(ctx, "fp", func(context.Context) ([]byte, error) {
		cancel() // request cancelled mid-computation
		return []byte("partial"), nil
	})
	assert.NoError(t, err)

	_, found, _ := store.Get(context.Background(), "fp")
	assert.False(t, found, "cancelled request must not leave a cache entry")
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute, 10*time.Millisecond)
	ctx := context.Background()

	assert.NoError(t, store.Set(ctx, "k", []byte("v"), 20*time.Millisecond))

	_, found, _ := store.Get(ctx, "k")
	assert.True(t, found)

	time.Sleep(40 * time.Millisecond)
	_, found, _ = store.Get(ctx, "k")
	assert.False(t, found)
}
