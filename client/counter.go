package client

import (
	"context"
	"time"

	"github.com/gin-contrib/cache/persistence"
	"github.com/redis/go-redis/v9"
)

// Counter counts hits per key within a fixed window that starts with the first hit.
type Counter interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

type MemoryCounter struct {
	store *persistence.InMemoryStore
}

func NewMemoryCounter(window time.Duration) *MemoryCounter {
	return &MemoryCounter{store: persistence.NewInMemoryStore(window)}
}

func (c *MemoryCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	value, err := c.store.Increment(key, 1)
	if err == nil {
		return int64(value), nil
	}
	if err := c.store.Set(key, uint64(1), window); err != nil {
		return 0, err
	}
	return 1, nil
}
