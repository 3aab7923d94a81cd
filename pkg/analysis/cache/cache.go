package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Logger is the slice of the app logger this package needs.
type Logger interface {
	Warn(module, message string, details map[string]interface{})
}

// ResultCache maps a content fingerprint to a previously computed analysis
// result. Concurrent callers with the same fingerprint are collapsed: the
// first computes, the rest block on it and share the result, so identical
// uploads never pay for the AI call twice.
//
// The backing store is a pure optimization. Store failures are logged and
// fall through to recomputation; they never fail a request.
type ResultCache struct {
	store Store
	ttl   time.Duration
	group singleflight.Group
	log   Logger
}

func New(store Store, ttl time.Duration, log Logger) *ResultCache {
	return &ResultCache{store: store, ttl: ttl, log: log}
}

type outcome struct {
	data []byte
	hit  bool
}

// GetOrCompute returns the cached bytes for fingerprint, or runs compute
// exactly once per in-flight fingerprint and stores its result. The second
// return value reports whether the bytes came from the cache (or from a
// computation shared with a concurrent identical request) rather than from
// this caller's own computation. Nothing is stored when ctx was cancelled
// before compute finished.
func (c *ResultCache) GetOrCompute(ctx context.Context, fingerprint string, compute func(ctx context.Context) ([]byte, error)) ([]byte, bool, error) {
	if data, found, err := c.store.Get(ctx, fingerprint); err != nil {
		c.warn("cache read failed, recomputing", fingerprint, err)
	} else if found {
		return data, true, nil
	}

	v, err, shared := c.group.Do(fingerprint, func() (interface{}, error) {
		// another instance may have stored it while we queued
		if data, found, err := c.store.Get(ctx, fingerprint); err == nil && found {
			return outcome{data: data, hit: true}, nil
		}

		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		if ctx.Err() == nil {
			if err := c.store.Set(ctx, fingerprint, data, c.ttl); err != nil {
				c.warn("cache write failed", fingerprint, err)
			}
		}
		return outcome{data: data}, nil
	})
	if err != nil {
		return nil, false, err
	}

	o := v.(outcome)
	return o.data, o.hit || shared, nil
}

func (c *ResultCache) warn(msg, fingerprint string, err error) {
	if c.log != nil {
		c.log.Warn("CACHE", msg, map[string]interface{}{
			"fingerprint": fingerprint,
			"error":       err.Error(),
		})
	}
}
