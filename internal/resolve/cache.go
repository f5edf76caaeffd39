package resolve

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
)

// AnswerCache memoizes FAQ answers keyed by normalized query. Only the
// FAQ stage is cached: its answers are session-independent, unlike
// topic responders which may interpolate the caller's name or role.
type AnswerCache struct {
	cache *ristretto.Cache[string, string]
	ttl   time.Duration
}

// NewAnswerCache creates a small TTL-bounded cache.
func NewAnswerCache(logger *zap.Logger) (*AnswerCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: 1e5,
		MaxCost:     1 << 20, // 1MB of answer text
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create answer cache: %w", err)
	}

	logger.Info("answer cache initialized", zap.Int64("max_cost_bytes", 1<<20))
	return &AnswerCache{cache: cache, ttl: 10 * time.Minute}, nil
}

// Get returns the cached answer for a normalized query, if present.
func (c *AnswerCache) Get(normalizedQuery string) (string, bool) {
	if c == nil {
		return "", false
	}
	return c.cache.Get(normalizedQuery)
}

// Set stores an answer; cost is the answer length in bytes.
func (c *AnswerCache) Set(normalizedQuery, answer string) {
	if c == nil {
		return
	}
	c.cache.SetWithTTL(normalizedQuery, answer, int64(len(answer)), c.ttl)
}

// Close releases the underlying cache.
func (c *AnswerCache) Close() {
	if c != nil {
		c.cache.Close()
	}
}
