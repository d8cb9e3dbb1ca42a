package ghost

import (
	"context"
	"fmt"
	"sync"

	"github.com/2beens/repcheck/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/codes"
)

const ghostsSetKey = "repcheck-ghosts"

var _ registry = (*RedisRegistry)(nil)
var _ registry = (*MemoryRegistry)(nil)

// RedisRegistry keeps all issued ghost ids in a single redis set
type RedisRegistry struct {
	redisClient *redis.Client
}

func NewRedisRegistry(redisClient *redis.Client) *RedisRegistry {
	return &RedisRegistry{
		redisClient: redisClient,
	}
}

func (r *RedisRegistry) Add(ctx context.Context, ghostID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ghost.registry.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := r.redisClient.SAdd(ctx, ghostsSetKey, ghostID).Err(); err != nil {
		return fmt.Errorf("redis sadd ghost: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Contains(ctx context.Context, ghostID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ghost.registry.contains")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	isMember, err := r.redisClient.SIsMember(ctx, ghostsSetKey, ghostID).Result()
	if err != nil {
		return false, fmt.Errorf("redis sismember ghost: %w", err)
	}
	return isMember, nil
}

type MemoryRegistry struct {
	mu     sync.RWMutex
	ghosts map[string]struct{}
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		ghosts: make(map[string]struct{}),
	}
}

func (r *MemoryRegistry) Add(_ context.Context, ghostID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ghosts[ghostID] = struct{}{}
	return nil
}

func (r *MemoryRegistry) Contains(_ context.Context, ghostID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ghosts[ghostID]
	return ok, nil
}
