package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// Compile-time interface check.
var _ Backend = (*RedisBackend)(nil)

// RedisBackend stores values as plain Redis strings under prefix+key,
// with no expiry.
type RedisBackend struct {
	client *redis.Client
	prefix string
	log    *logger.Logger
}

// NewRedisBackend wraps an existing client. prefix is prepended to every
// key, e.g. "scorekeep:".
func NewRedisBackend(client *redis.Client, prefix string, log *logger.Logger) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix, log: log}
}

// DialRedis parses a redis:// URL and returns a backend on a new client.
// The connection is not checked here; the first Get or Set reports
// failures.
func DialRedis(url, prefix string, log *logger.Logger) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return NewRedisBackend(redis.NewClient(opts), prefix, log), nil
}

// Get reads prefix+key.
func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis key %s%s: %w", r.prefix, key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s%s: %w", r.prefix, key, err)
	}
	return data, nil
}

// Set writes prefix+key.
func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s%s: %w", r.prefix, key, err)
	}
	r.log.Debug("redis backend: set %s%s (%d bytes)", r.prefix, key, len(value))
	return nil
}

// Close releases the underlying client.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}
