package ratelimit

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements the same fixed-window semantics as MemoryLimiter
// on a Redis counter: INCR per hit, with the key's TTL set on the first hit
// of a window. Key expiry doubles as stale-entry cleanup. On backend errors
// it fails open so a Redis hiccup never blocks legitimate traffic.
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
	max    int
	prefix string
}

func NewRedisLimiter(client *redis.Client, window time.Duration, max int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "ratelimit:",
	}
}

func (l *RedisLimiter) Exceeded(ctx context.Context, key string) bool {
	count, err := l.client.Incr(ctx, l.prefix+key).Result()
	if err != nil {
		log.Printf("ratelimit: redis incr failed for %s: %v", key, err)
		return false
	}
	if count == 1 {
		if err := l.client.Expire(ctx, l.prefix+key, l.window).Err(); err != nil {
			log.Printf("ratelimit: redis expire failed for %s: %v", key, err)
		}
	}
	return count > int64(l.max)
}
