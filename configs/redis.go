package configs

import (
	"context"
	"time"

	"formify.app/configs/configslog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient returns nil when Redis is not configured or unreachable; callers fall
// back to in-memory storage.
func NewRedisClient() *redis.Client {
	rc := Conf().Redis
	if rc.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		configslog.Log.Warn("Redis unreachable, using in-memory storage", zap.String("addr", rc.Addr), zap.Error(err))
		_ = client.Close()
		return nil
	}

	configslog.SLog.Infof("Redis connection established (%s)", rc.Addr)
	return client
}
