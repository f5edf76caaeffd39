// Package guard rate-limits inbound chat messages per session. With a
// Redis client it uses fixed one-minute INCR/EXPIRE windows shared
// across instances; without one it falls back to in-process windows
// held in an expiring LRU.
package guard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// DefaultPerMinute is the default message budget per session.
	DefaultPerMinute = 30

	localWindowSize = 4096
)

// RateLimiter enforces a per-session messages-per-minute cap.
// A limit of zero disables limiting entirely.
type RateLimiter struct {
	client *redis.Client // nil when Redis is not configured
	limit  int
	logger *zap.Logger

	mu    sync.Mutex
	local *expirable.LRU[string, *atomic.Int64]
}

// NewRateLimiter creates a limiter. client may be nil.
func NewRateLimiter(client *redis.Client, limit int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		logger: logger,
		local:  expirable.NewLRU[string, *atomic.Int64](localWindowSize, nil, time.Minute),
	}
}

// Allow reports whether the session may send another message right now.
// Redis errors degrade to the local window rather than blocking chat.
func (rl *RateLimiter) Allow(ctx context.Context, sessionID string) bool {
	if rl == nil || rl.limit <= 0 {
		return true
	}

	if rl.client != nil {
		allowed, err := rl.allowRedis(ctx, sessionID)
		if err == nil {
			return allowed
		}
		rl.logger.Warn("redis rate limit check failed, using local window", zap.Error(err))
	}

	return rl.allowLocal(sessionID)
}

func (rl *RateLimiter) allowRedis(ctx context.Context, sessionID string) (bool, error) {
	window := time.Now().Unix() / 60
	key := fmt.Sprintf("assistant:rl:%s:%d", sessionID, window)

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// First hit in this window; bound the key's lifetime.
		if err := rl.client.Expire(ctx, key, 2*time.Minute).Err(); err != nil {
			rl.logger.Warn("failed to set rate limit expiry", zap.Error(err))
		}
	}
	return count <= int64(rl.limit), nil
}

func (rl *RateLimiter) allowLocal(sessionID string) bool {
	rl.mu.Lock()
	counter, ok := rl.local.Get(sessionID)
	if !ok {
		counter = &atomic.Int64{}
		rl.local.Add(sessionID, counter)
	}
	rl.mu.Unlock()

	return counter.Add(1) <= int64(rl.limit)
}
