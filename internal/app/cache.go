package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/cache"
	"github.com/Freeeeeet/booking_bot/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewCache создаёт кэш доступности по CACHE_DRIVER.
// Возвращаемая функция освобождает ресурсы драйвера.
func NewCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Cache, func() error, error) {
	noClose := func() error { return nil }

	switch cfg.Cache.Driver {
	case config.CacheDriverNone:
		logger.Info("Availability cache disabled")
		return cache.Noop{}, noClose, nil

	case config.CacheDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		c := cache.NewRedis(client, cfg.Cache.TTL, logger)

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := c.Ping(pingCtx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}

		logger.Info("Availability cache: redis", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Cache.TTL))
		return c, client.Close, nil

	default:
		logger.Info("Availability cache: in-memory LRU", zap.Int("size", cfg.Cache.Size), zap.Duration("ttl", cfg.Cache.TTL))
		return cache.NewLRU(cfg.Cache.Size, cfg.Cache.TTL), noClose, nil
	}
}
