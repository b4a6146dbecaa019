package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kinderhomes/kinder-estate/internal/config"
)

// NewRedis dials the session store. The address comes in URL form
// (redis://host:port/db) so a single env var carries host, credentials,
// and database index. A failed ping is fatal here: without Redis no one
// can log in, so there is nothing useful for the process to do.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}
