package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client interface {
	GetGeneralReport(orgID string) ([]byte, error)
	SetGeneralReport(orgID string, data []byte, ttl time.Duration) error
	InvalidateGeneralReport(orgID string) error
	IncrWithTTL(key string, window time.Duration) (int64, error)
	Close() error
}

type RedisCache struct {
	rdb *redis.Client
}

func NewRedisClient() (*RedisCache, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{rdb: rdb}, nil
}

func reportKey(orgID string) string {
	return fmt.Sprintf("crm:report:general:%s", orgID)
}

func (c *RedisCache) GetGeneralReport(orgID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return c.rdb.Get(ctx, reportKey(orgID)).Bytes()
}

func (c *RedisCache) SetGeneralReport(orgID string, data []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return c.rdb.Set(ctx, reportKey(orgID), data, ttl).Err()
}

func (c *RedisCache) InvalidateGeneralReport(orgID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return c.rdb.Del(ctx, reportKey(orgID)).Err()
}

// IncrWithTTL bumps a rate-limit counter, setting the window TTL when the
// key is first created.
func (c *RedisCache) IncrWithTTL(key string, window time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
