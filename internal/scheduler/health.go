package scheduler

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisHealth pings the queue's Redis for readiness checks.
type RedisHealth struct {
	client *redis.Client
}

// NewRedisHealth connects to redisURL with the same TLS handling as the queue.
func NewRedisHealth(redisURL string, tlsInsecure bool) (*RedisHealth, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opt.TLSConfig = tlsConfig(opt.TLSConfig, tlsInsecure)
	return &RedisHealth{client: redis.NewClient(opt)}, nil
}

func (h *RedisHealth) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}

func (h *RedisHealth) Close() error {
	return h.client.Close()
}
