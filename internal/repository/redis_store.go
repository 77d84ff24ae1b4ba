package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each session as one hash at "<prefix>:<sid>".  When ttl
// is positive every write pushes the hash expiry forward, so abandoned
// sessions eventually disappear; zero keeps them forever.
type RedisBackend struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisBackend(rdb *redis.Client, prefix string, ttl time.Duration) *RedisBackend {
	if prefix == "" {
		prefix = "stayin:session"
	}
	return &RedisBackend{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (b *RedisBackend) Scope(sessionID string) Store {
	return &redisStore{b: b, key: b.prefix + ":" + sessionID}
}

func (b *RedisBackend) Close() error { return b.rdb.Close() }

type redisStore struct {
	b   *RedisBackend
	key string
}

func (s *redisStore) Get(ctx context.Context, field string) (string, bool, error) {
	v, err := s.b.rdb.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *redisStore) Set(ctx context.Context, field, value string) error {
	pipe := s.b.rdb.TxPipeline()
	pipe.HSet(ctx, s.key, field, value)
	if s.b.ttl > 0 {
		pipe.Expire(ctx, s.key, s.b.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) Remove(ctx context.Context, field string) error {
	return s.b.rdb.HDel(ctx, s.key, field).Err()
}
