// Package cache keeps the session scope in Redis so sessions survive restarts and
// expire natively.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reelzone/backend/internal/config"
	"github.com/reelzone/backend/internal/kv"
)

// RedisStore implements kv.Store on a Redis database. Keys are namespaced by profile.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttls   map[string]time.Duration
}

// Option configures a RedisStore.
type Option func(*RedisStore)

// WithKeyTTL makes Redis expire key ttl after each write. Entries for other keys never expire.
func WithKeyTTL(key string, ttl time.Duration) Option {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttls[key] = ttl
		}
	}
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisStore wraps client. Keys are stored as "<profile>:<key>".
func NewRedisStore(client redis.UniversalClient, profile string, opts ...Option) *RedisStore {
	if client == nil {
		panic("cache: redis client must not be nil")
	}
	s := &RedisStore{client: client, prefix: profile + ":", ttls: make(map[string]time.Duration)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements kv.Store.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set implements kv.Store.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttls[key]).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove implements kv.Store.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
