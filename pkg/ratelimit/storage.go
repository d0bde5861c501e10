// Package ratelimit provides the limiter middleware and its Redis-backed storage.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"formify.app/configs/configslog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "formify:ratelimit:"

// RedisStorage implements fiber.Storage on a go-redis client.
type RedisStorage struct {
	client  redis.UniversalClient
	timeout time.Duration
}

var _ fiber.Storage = (*RedisStorage)(nil)

func NewRedisStorage(client redis.UniversalClient) *RedisStorage {
	return &RedisStorage{client: client, timeout: 2 * time.Second}
}

func (s *RedisStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Get returns nil without error for missing keys.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	val, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Set(ctx, keyPrefix+key, val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Del(ctx, keyPrefix+key).Err()
}

// Reset removes only the limiter's own keys.
func (s *RedisStorage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}

// Config of one limited route group.
type Config struct {
	Max        int
	Expiration time.Duration
	// Storage is nil for the limiter's in-memory store.
	Storage fiber.Storage
}

// New returns a per-IP limiter answering 429 with a JSON error.
func New(cfg Config) fiber.Handler {
	if cfg.Max <= 0 {
		cfg.Max = 5
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Expiration,
		Storage:    cfg.Storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Path() + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			configslog.SLog.Warnf("Rate limit reached: %s %s from %s", c.Method(), c.Path(), c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests, please try again later"})
		},
	})
}
