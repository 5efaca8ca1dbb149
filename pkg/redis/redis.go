package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vibeprint/storefront/config"
	"github.com/vibeprint/storefront/pkg/logger"
)

var client *redis.Client

// Init opens the shared Redis connection and verifies it with a PING.
func Init(cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return client, nil
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}
