package persist

import (
	"context"
	"fmt"

	"github.com/avenue-assistant/internal/jsonx"
	"github.com/avenue-assistant/internal/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisSnapshotKey = "assistant:sessions"

// RedisBackend persists snapshots in a Redis hash, one field per
// session id. Useful when the assistant runs on ephemeral disks.
type RedisBackend struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisBackend creates a backend over an existing client.
func NewRedisBackend(client *redis.Client, logger *zap.Logger) *RedisBackend {
	return &RedisBackend{client: client, logger: logger}
}

// Load reads every persisted session. Individual corrupt fields are
// skipped with a warning rather than failing the whole load.
func (b *RedisBackend) Load(ctx context.Context) (map[string][]session.Message, error) {
	fields, err := b.client.HGetAll(ctx, redisSnapshotKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load: %w", err)
	}

	snap := make(map[string][]session.Message, len(fields))
	for id, raw := range fields {
		var msgs []session.Message
		if err := jsonx.Unmarshal([]byte(raw), &msgs); err != nil {
			b.logger.Warn("skipping corrupt persisted session",
				zap.String("session_id", id), zap.Error(err))
			continue
		}
		snap[id] = msgs
	}
	return snap, nil
}

// Save replaces the stored hash with the snapshot in one pipeline.
func (b *RedisBackend) Save(ctx context.Context, snap map[string][]session.Message) error {
	pipe := b.client.TxPipeline()
	pipe.Del(ctx, redisSnapshotKey)

	for id, msgs := range snap {
		data, err := jsonx.Marshal(msgs)
		if err != nil {
			return fmt.Errorf("encode session %s: %w", id, err)
		}
		pipe.HSet(ctx, redisSnapshotKey, id, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}
