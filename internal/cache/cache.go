// internal/cache/cache.go

// Package cache stores upstream responses for a short while so that page
// loads and chat prompts do not hit the catalog API every time.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"travel-cards/internal/config"
	"travel-cards/internal/metrics"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// New picks the backend named in the config. The Redis backend is checked
// with a ping so a wrong address shows up at startup.
func New(ctx context.Context, cfg config.Config) (Cache, error) {
	switch cfg.CacheBackend {
	case "", "memory":
		return NewMemory(cfg.CatalogCacheTTL), nil
	case "redis":
		r := NewRedis(cfg.RedisAddr)
		if err := r.client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// Memory is an in-process cache.
type Memory struct {
	store *gocache.Cache
}

func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &Memory{store: gocache.New(defaultTTL, 10*time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.store.Get(key)
	if !ok {
		metrics.CacheLookupsTotal.WithLabelValues("memory", "miss").Inc()
		return nil, false
	}
	metrics.CacheLookupsTotal.WithLabelValues("memory", "hit").Inc()
	return v.([]byte), true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

// Redis shares cached entries between API and bot processes.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("redis get failed", "key", key, "error", err)
		}
		metrics.CacheLookupsTotal.WithLabelValues("redis", "miss").Inc()
		return nil, false
	}
	metrics.CacheLookupsTotal.WithLabelValues("redis", "hit").Inc()
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
