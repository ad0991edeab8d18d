package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const scanBatch = 100

//go:generate mockgen -source=cache.go -destination=mock/cache_mock.go -package=mock
type Cache interface {
	// Get decodes the cached value into dest. found is false on a miss.
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// Key joins parts into a deterministic cache key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

type redisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) Cache {
	if rdb == nil {
		return NoopCache{}
	}
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, payload, ttl).Err()
}

func (c *redisCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}

type NoopCache struct{}

func (NoopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NoopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (NoopCache) InvalidatePrefix(context.Context, string) error { return nil }

// Remember is a read-through helper: a hit is returned as is, a miss is loaded
// once per key (concurrent misses share the load) and written back. Cache
// errors are logged and never returned.
func Remember[T any](
	ctx context.Context,
	c Cache,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	log := zap.L().Named("cache")

	var cached T
	found, err := c.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		return cached, nil
	}

	v, err, _ := sf.Do(key, func() (interface{}, error) {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, loaded, ttl); err != nil {
			log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

// Invalidate drops every key under prefix, logging instead of failing.
func Invalidate(ctx context.Context, c Cache, prefix string) {
	if err := c.InvalidatePrefix(ctx, prefix); err != nil {
		zap.L().Named("cache").Error("failed to invalidate cache",
			zap.String("prefix", prefix),
			zap.Error(err),
		)
	}
}
