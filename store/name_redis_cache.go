package store

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
)

// Read-through cache for display names, replacing the per-component
// userNames maps the UI used to rebuild every session. Redis TTL is
// the eviction policy, nothing accumulates in process memory.
type NameRedisCache struct {
	client *redis.Client
	tracer trace.Tracer
}

func NewNameRedisCache(client *redis.Client, tracer trace.Tracer) domain.NameCache {
	return &NameRedisCache{
		client: client,
		tracer: tracer,
	}
}

func (cache *NameRedisCache) Get(ctx context.Context, userID string) (string, error) {
	ctx, span := cache.tracer.Start(ctx, "NameRedisCache.Get")
	defer span.End()

	result := cache.client.Get(nameKey(userID))
	name, err := result.Result()
	if err != nil {
		span.SetStatus(codes.Error, "Error getting cached name")
		return "", err
	}
	return name, nil
}

func (cache *NameRedisCache) Set(ctx context.Context, userID string, name string) error {
	ctx, span := cache.tracer.Start(ctx, "NameRedisCache.Set")
	defer span.End()

	result := cache.client.Set(nameKey(userID), name, 30*time.Minute)
	if result.Err() != nil {
		span.SetStatus(codes.Error, "Error posting cached name")
		log.Printf("redis set error: %s", result.Err())
		return result.Err()
	}
	return nil
}

func nameKey(userID string) string {
	return "displayName:" + userID
}
