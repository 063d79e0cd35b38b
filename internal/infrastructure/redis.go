package infrastructure

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedis connects to Redis for the optional statistics cache.
// Returns nil when the cache is disabled; callers treat a nil client
// as "no cache" and compute everything from the stores.
func NewRedis(config *RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	if !config.Enabled {
		logger.Info("Statistics cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info("Redis connection established",
		zap.String("addr", config.Addr),
	)
	return client, nil
}
