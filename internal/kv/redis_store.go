package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/repcheck/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var _ Store = (*RedisStore)(nil)
var _ Scoper = (*RedisStore)(nil)

type RedisStore struct {
	redisClient *redis.Client
	namespace   string
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (s *RedisStore) Scoped(namespace string) Store {
	return &RedisStore{
		redisClient: s.redisClient,
		namespace:   namespace,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kv.redis.get")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if key == "" {
		return "", false, ErrEmptyKey
	}

	fullKey := namespacedKey(s.namespace, key)
	span.SetAttributes(attribute.String("kv.key", fullKey))

	value, err := s.redisClient.Get(ctx, fullKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", fullKey, err)
	}

	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kv.redis.set")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if key == "" {
		return ErrEmptyKey
	}

	fullKey := namespacedKey(s.namespace, key)
	span.SetAttributes(attribute.String("kv.key", fullKey))

	// no TTL, values live until overwritten (like device storage)
	if err := s.redisClient.Set(ctx, fullKey, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", fullKey, err)
	}
	return nil
}
