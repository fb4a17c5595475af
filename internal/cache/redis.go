package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Afifibytes/simple-survey-tool/internal/errors"
)

// Redis backs the Cache with a Redis server so cached entries survive restarts and
// are shared between instances. Errors degrade to cache misses; the cache is an
// optimisation, never a hard dependency.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedis(client *redis.Client, logger *slog.Logger) *Redis {
	return &Redis{
		client: client,
		logger: logger.With("source", "cache.Redis"),
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "cache get failed",
				slog.String("key", key), errors.SlogError(errors.Wrap(err, "redis get")))
		}
		return "", false
	}
	return value, true
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "cache set failed",
			slog.String("key", key), errors.SlogError(errors.Wrap(err, "redis set")))
	}
}
