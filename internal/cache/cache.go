package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/Alturino/storefront/internal/config"
)

const KEY_PRODUCT = "products:%s"

var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(c context.Context, key string, dst any) error
	Set(c context.Context, key string, value any) error
	Del(c context.Context, keys ...string) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(c context.Context, key string, dst any) error {
	value, err := r.client.Get(c, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed getting key=%s with error=%w", key, err)
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("failed unmarshaling key=%s with error=%w", key, err)
	}
	return nil
}

func (r *RedisCache) Set(c context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed marshaling key=%s with error=%w", key, err)
	}
	if err := r.client.Set(c, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed setting key=%s with error=%w", key, err)
	}
	return nil
}

func (r *RedisCache) Del(c context.Context, keys ...string) error {
	if err := r.client.Del(c, keys...).Err(); err != nil {
		return fmt.Errorf("failed deleting keys=%v with error=%w", keys, err)
	}
	return nil
}

// MemoryCache stores encoded values so callers never share mutable state
// with the cache.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *MemoryCache) Get(c context.Context, key string, dst any) error {
	value, ok := m.lru.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("failed unmarshaling key=%s with error=%w", key, err)
	}
	return nil
}

func (m *MemoryCache) Set(c context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed marshaling key=%s with error=%w", key, err)
	}
	m.lru.Add(key, data)
	return nil
}

func (m *MemoryCache) Del(c context.Context, keys ...string) error {
	for _, key := range keys {
		m.lru.Remove(key)
	}
	return nil
}

// New picks the driver configured in cfg. client is only used by the redis
// driver and may be nil otherwise.
func New(cfg config.Cache, client *redis.Client) (Cache, error) {
	switch cfg.Driver {
	case config.CACHE_DRIVER_REDIS:
		if client == nil {
			return nil, fmt.Errorf("cache driver=%s requires a redis client", cfg.Driver)
		}
		return NewRedisCache(client, cfg.TTL), nil
	case config.CACHE_DRIVER_MEMORY:
		return NewMemoryCache(cfg.Size, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache driver=%s", cfg.Driver)
	}
}
