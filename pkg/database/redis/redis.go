package redis

import (
	"context"
	"fmt"
	"net"
	"npsSurvey/pkg/config"

	"github.com/redis/go-redis/v9"
)

// clientOptions maps RedisConfig onto go-redis options. Reads and writes share
// the op timeout since the run lock only issues SETNX and a short script.
func clientOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		DialTimeout:  cfg.RedisDialTimeout,
		ReadTimeout:  cfg.RedisOpTimeout,
		WriteTimeout: cfg.RedisOpTimeout,
	}
}

// NewRedisClient connects to the lock store and fails fast when it is unreachable.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(clientOptions(cfg.Redis))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.RedisDialTimeout+cfg.Redis.RedisOpTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s db %d: %w", client.Options().Addr, cfg.Redis.RedisDB, err)
	}

	return client, nil
}

func CloseRedisClient(client *redis.Client) error {
	if client == nil {
		return nil
	}

	return client.Close()
}
