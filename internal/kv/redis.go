package kv

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps values as plain redis strings under an optional prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func openRedis(ctx context.Context, url string) (Store, io.Closer, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	client := redis.NewClient(opts)

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	if pong != "PONG" {
		_ = client.Close()
		return nil, nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return NewRedisStore(client, "mdviewer:"), client, nil
}

func (s *RedisStore) Get(ctx context.Context, key, def string) string {
	if s == nil || s.client == nil {
		return def
	}
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		// redis.Nil for a missing key, anything else is an unreachable backend
		return def
	}
	return v
}

func (s *RedisStore) Put(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}
