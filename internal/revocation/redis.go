package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "token:denylist:"

// RedisStore backs the denylist with Redis so revocation is visible to every
// server handling subsequent requests. On a single node a write is visible to
// the next read; under replication, visibility follows Redis's asynchronous
// replication (typically well under a second), which is the propagation bound
// this service accepts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a denylist backed by client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Connect parses a redis:// URL, connects, and verifies the connection with a
// ping before returning the client.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	return client, nil
}

// Revoke marks jti revoked for ttl. Non-positive ttl entries are clamped to
// one minute so an already-expired token still spends a moment on the list.
func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, keyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether jti is on the denylist.
func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping verifies the Redis connection, for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
