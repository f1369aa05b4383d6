package storage

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

type RedisKV struct {
	rdb *redis.Client
}

func NewRedisKV(rdb *redis.Client) *RedisKV {
	return &RedisKV{
		rdb: rdb,
	}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := kv.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores the value without expiration.
func (kv *RedisKV) Set(ctx context.Context, key, value string) error {
	return kv.rdb.Set(ctx, key, value, 0).Err()
}

// Close is a no-op, the redis client is shared with the rate limiter.
func (kv *RedisKV) Close() error {
	return nil
}
