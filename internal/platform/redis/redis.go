package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect creates a Redis client for addr and verifies it answers PING.
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ConnectOrFallback returns nil and a no-op cleanup when addr is blank or unreachable,
// so callers can keep carts in memory.
func ConnectOrFallback(ctx context.Context, addr string, logger *slog.Logger) (*goredis.Client, func()) {
	if strings.TrimSpace(addr) == "" {
		if logger != nil {
			logger.Warn("REDIS_ADDR not set, falling back to in-memory carts")
		}
		return nil, func() {}
	}
	client, err := Connect(ctx, addr)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, falling back to in-memory carts", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established", slog.String("addr", addr))
	}
	return client, func() { _ = client.Close() }
}
