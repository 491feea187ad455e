package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "videotube:refresh:"

// swapScript replaces KEYS[1] with ARGV[2] only while it equals ARGV[1].
// ARGV[3] is the new TTL in milliseconds.
var swapScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
	return 1
end
return 0
`)

// RedisRepository keeps slots in Redis so several server processes share
// them. Each slot expires together with the refresh token it holds.
type RedisRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisRepository(client redis.UniversalClient, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func key(userID string) string {
	return keyPrefix + userID
}

func (r *RedisRepository) Get(ctx context.Context, userID string) (string, error) {
	token, err := r.client.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis error: %w", err)
	}
	return token, nil
}

func (r *RedisRepository) Set(ctx context.Context, userID string, token string) error {
	if err := r.client.Set(ctx, key(userID), token, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) CompareAndSwap(ctx context.Context, userID string, expected string, next string) (bool, error) {
	n, err := swapScript.Run(ctx, r.client, []string{key(userID)}, expected, next, r.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n == 1, nil
}

func (r *RedisRepository) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

// Ping reports whether the Redis server is reachable.
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
