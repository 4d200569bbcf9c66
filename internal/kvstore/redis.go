package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "spherecast:kv:"

// Redis keeps one hash per namespace.
type Redis struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, namespace, key string) (string, error) {
	if err := checkScope(namespace, key); err != nil {
		return "", err
	}
	v, err := r.client.HGet(ctx, redisKeyPrefix+namespace, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis hget: %w", err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, namespace, key, value string) error {
	if err := checkScope(namespace, key); err != nil {
		return err
	}
	if err := r.client.HSet(ctx, redisKeyPrefix+namespace, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, namespace, key string) error {
	if err := checkScope(namespace, key); err != nil {
		return err
	}
	if err := r.client.HDel(ctx, redisKeyPrefix+namespace, key).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}
