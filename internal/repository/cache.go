package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

const (
	orderListKey       = "storefront:orders:all"
	orderGenerationKey = "storefront:orders:generation"
	defaultCacheTTL    = 5 * time.Minute
)

// RedisOrderCache implements OrderListCache using Redis.
type RedisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisOrderCache creates a new Redis-based order list cache.
func NewRedisOrderCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisOrderCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	return &RedisOrderCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "order-cache"),
	}
}

// GetAll retrieves the cached order listing and the current generation in one round trip.
func (c *RedisOrderCache) GetAll(ctx context.Context) ([]*models.Order, int64, error) {
	vals, err := c.client.MGet(ctx, orderGenerationKey, orderListKey).Result()
	if err != nil {
		c.logger.ErrorContext(ctx, "Cache get error", "key", orderListKey, "error", err.Error())
		return nil, 0, err
	}

	generation, err := parseGeneration(vals[0])
	if err != nil {
		return nil, 0, err
	}

	data, ok := vals[1].(string)
	if !ok {
		c.logger.DebugContext(ctx, "Cache miss", "key", orderListKey, "generation", generation)
		return nil, generation, nil
	}

	var orders []*models.Order
	if err := json.Unmarshal([]byte(data), &orders); err != nil {
		return nil, 0, err
	}

	c.logger.DebugContext(ctx, "Cache hit", "key", orderListKey, "count", len(orders))
	return orders, generation, nil
}

// SetAll stores the order listing. The write is skipped with ErrStaleListing
// when the generation moved since it was read.
func (c *RedisOrderCache) SetAll(ctx context.Context, orders []*models.Order, generation int64) error {
	if orders == nil {
		orders = []*models.Order{}
	}

	data, err := json.Marshal(orders)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, orderGenerationKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != generation {
			return ErrStaleListing
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, orderListKey, data, c.ttl)
			return nil
		})
		return err
	}, orderGenerationKey)

	if errors.Is(err, redis.TxFailedErr) {
		err = ErrStaleListing
	}
	if errors.Is(err, ErrStaleListing) {
		c.logger.DebugContext(ctx, "Skipped caching stale listing", "generation", generation)
		return err
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "Cache set error", "key", orderListKey, "error", err.Error())
		return err
	}

	c.logger.DebugContext(ctx, "Order listing cached",
		"count", len(orders),
		"generation", generation,
		"ttl", c.ttl.String(),
	)
	return nil
}

// Invalidate drops the cached listing and advances the generation, so a
// listing read before this call can no longer be stored.
func (c *RedisOrderCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, orderGenerationKey)
		pipe.Del(ctx, orderListKey)
		return nil
	})
	return err
}

// Ping checks the Redis connection.
func (c *RedisOrderCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func parseGeneration(v interface{}) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
