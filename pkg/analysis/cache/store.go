package cache

import (
	"context"
	"time"
)

// Store is the pluggable backing for analysis results: a byte-level KV
// with per-entry TTL. A durable shared store (Redis) serves multi-instance
// deployments, a process-local store serves single-instance or degraded
// mode; the cache contract above it is identical for both.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
