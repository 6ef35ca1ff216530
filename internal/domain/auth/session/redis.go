package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore is the durable backend. A transport error during an operation
// degrades that operation only; the driver retries with linear backoff up to
// the configured cap, and the process never switches backends mid-life.
type redisStore struct {
	client *redis.Client
}

// RedisOptions tunes the durable backend connection.
type RedisOptions struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
}

// NewRedis connects to the durable backend and verifies the connection with
// a ping. A failed ping is returned to the caller so the provider can fall
// back to the in-memory store.
func NewRedis(ctx context.Context, opts RedisOptions) (Store, error) {
	if opts.URL == "" {
		return nil, errors.New("redis url required")
	}

	parsed, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	parsed.DialTimeout = timeout
	parsed.ReadTimeout = timeout
	parsed.WriteTimeout = timeout
	parsed.MaxRetries = maxRetries
	parsed.MinRetryBackoff = 100 * time.Millisecond
	parsed.MaxRetryBackoff = time.Duration(maxRetries) * 100 * time.Millisecond

	client := redis.NewClient(parsed)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &redisStore{client: client}, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return val, nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
