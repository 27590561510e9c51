package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"resort/infras/otel"
)

// Locker serializes critical sections keyed by an arbitrary string, backed by
// redis SET NX. Used to guard the room-overlap check during booking creation.
type Locker interface {
	Acquire(ctx context.Context, key string, ttlSeconds int) (bool, error)
	Release(ctx context.Context, key string) error
}

type redisLocker struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisLocker(client *redis.Client, ot otel.Otel) Locker {
	return &redisLocker{
		client: client,
		otel:   ot,
	}
}

// Acquire implements Locker.
func (l *redisLocker) Acquire(ctx context.Context, key string, ttlSeconds int) (acquired bool, err error) {
	ctx, scope := l.otel.NewScope(ctx, otelScopeName, otelScopeName+".Acquire")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	acquired, err = l.client.SetNX(ctx, key, "1", time.Second*time.Duration(ttlSeconds)).Result()
	if err != nil {
		log.Error().Err(err).Str("key", key).Str("Locker", "Acquire").Msg("failed to acquire lock")

		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	return acquired, nil
}

// Release implements Locker.
func (l *redisLocker) Release(ctx context.Context, key string) (err error) {
	ctx, scope := l.otel.NewScope(ctx, otelScopeName, otelScopeName+".Release")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	if err = l.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Str("Locker", "Release").Msg("failed to release lock")

		return fmt.Errorf("failed to release lock: %w", err)
	}

	return nil
}
