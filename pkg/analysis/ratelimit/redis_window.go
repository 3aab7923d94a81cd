package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const windowKeyPrefix = "medreport:rl:"

// RedisWindow keeps the sliding window in a per-key ZSET scored by request
// time, so the window is shared across instances when the cache backing
// store is shared too. The trim+reserve+count runs in one MULTI/EXEC, a
// single-key upsert with no read-modify-write race; an over-capacity
// reservation is rolled back before denying.
type RedisWindow struct {
	client   *redis.Client
	capacity int
	window   time.Duration
	seq      atomic.Int64
}

func NewRedisWindow(client *redis.Client, capacity int, window time.Duration) *RedisWindow {
	return &RedisWindow{
		client:   client,
		capacity: capacity,
		window:   window,
	}
}

// nextMember mints a ZSET member unique across concurrent callers. Two
// requests landing on the same nanosecond must not collapse into one
// admission, so the timestamp is disambiguated by an atomic counter.
func (w *RedisWindow) nextMember(nowNano int64) string {
	return fmt.Sprintf("%d-%d", nowNano, w.seq.Add(1))
}

func (w *RedisWindow) Allow(ctx context.Context, clientKey string) (bool, time.Duration, error) {
	key := windowKeyPrefix + clientKey
	now := time.Now()
	nowNano := now.UnixNano()
	cutoff := strconv.FormatInt(now.Add(-w.window).UnixNano(), 10)
	member := w.nextMember(nowNano)

	pipe := w.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", cutoff)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(nowNano), Member: member})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, w.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate window %s: %w", clientKey, err)
	}

	if card.Val() <= int64(w.capacity) {
		return true, 0, nil
	}

	// over capacity: release our reservation and report when a slot opens
	w.client.ZRem(ctx, key, member)

	retryAfter := w.window
	if oldest, err := w.client.ZRangeWithScores(ctx, key, 0, 0).Result(); err == nil && len(oldest) > 0 {
		oldestAt := time.Unix(0, int64(oldest[0].Score))
		retryAfter = oldestAt.Add(w.window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
	}
	return false, retryAfter, nil
}
