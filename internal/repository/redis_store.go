package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each namespace blob under its own Redis key. Blobs are
// written without expiry; this is the primary store, not a cache.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load reads the blob for a namespace. A missing key is not an error.
func (s *RedisStore) Load(ctx context.Context, namespace string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, namespace).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", namespace, err)
	}
	return raw, true, nil
}

// Save replaces the namespace blob.
func (s *RedisStore) Save(ctx context.Context, namespace string, payload []byte) error {
	if err := s.client.Set(ctx, namespace, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", namespace, err)
	}
	return nil
}

// Delete removes the namespace blob.
func (s *RedisStore) Delete(ctx context.Context, namespace string) error {
	if err := s.client.Del(ctx, namespace).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", namespace, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
