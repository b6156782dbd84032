package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"taiwan-opendata/landsync/internal/config"
)

// RedisCacheService implements CacheInterface using Redis, for
// deployments where several instances share one cache
type RedisCacheService struct {
	client *redis.Client
	ctx    context.Context
}

// Ensure RedisCacheService implements CacheInterface
var _ CacheInterface = (*RedisCacheService)(nil)

// NewRedisCacheService creates a new Redis-based cache service
func NewRedisCacheService(cfg *config.Config) (*RedisCacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCacheService{
		client: client,
		ctx:    ctx,
	}, nil
}

func (rs *RedisCacheService) Set(key string, value interface{}, duration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	rs.client.Set(rs.ctx, key, data, duration)
}

func (rs *RedisCacheService) Get(key string) (interface{}, bool) {
	data, err := rs.client.Get(rs.ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}
	return value, true
}

func (rs *RedisCacheService) Delete(key string) {
	rs.client.Del(rs.ctx, key)
}

func (rs *RedisCacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error)) (interface{}, error) {
	if val, found := rs.Get(key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}

	rs.Set(key, val, duration)
	return val, nil
}

// Close closes the Redis connection
func (rs *RedisCacheService) Close() error {
	return rs.client.Close()
}

// SelectCache returns the Redis cache when configured, otherwise the
// in-memory implementation
func SelectCache(cfg *config.Config) CacheInterface {
	if cfg.RedisHost != "" {
		if redisCache, err := NewRedisCacheService(cfg); err == nil {
			return redisCache
		}
	}
	return NewCacheService(600, 1200)
}
