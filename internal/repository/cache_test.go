package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

func newTestCache(t *testing.T) (*RedisOrderCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisOrderCache(client, time.Minute, logging.Discard()), mr
}

func TestRedisOrderCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	orders, generation, err := cache.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if orders != nil {
		t.Errorf("Expected nil on miss, got %v", orders)
	}
	if generation != 0 {
		t.Errorf("Expected generation 0 before any invalidation, got %d", generation)
	}
}

func TestRedisOrderCache_SetAndGet(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	want := []*models.Order{testOrder("first"), testOrder("second")}
	if err := cache.SetAll(ctx, want, 0); err != nil {
		t.Fatalf("SetAll returned error: %v", err)
	}

	if ttl := mr.TTL(orderListKey); ttl != time.Minute {
		t.Errorf("Expected TTL 1m, got %s", ttl)
	}

	got, _, err := cache.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(got))
	}
	assertSameOrder(t, want[0], got[0])
	assertSameOrder(t, want[1], got[1])
}

func TestRedisOrderCache_EmptyListIsAHit(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if err := cache.SetAll(ctx, nil, 0); err != nil {
		t.Fatalf("SetAll returned error: %v", err)
	}

	got, _, err := cache.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil listing, got %v", got)
	}
}

func TestRedisOrderCache_InvalidateAndExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if err := cache.SetAll(ctx, []*models.Order{testOrder("o-1")}, 0); err != nil {
		t.Fatalf("SetAll returned error: %v", err)
	}
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}

	got, generation, err := cache.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected miss after invalidate, got %v", got)
	}
	if generation != 1 {
		t.Errorf("Expected generation 1 after invalidate, got %d", generation)
	}

	if err := cache.SetAll(ctx, []*models.Order{testOrder("o-2")}, generation); err != nil {
		t.Fatalf("SetAll returned error: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if got, _, _ := cache.GetAll(ctx); got != nil {
		t.Errorf("Expected miss after TTL, got %v", got)
	}
}

func TestRedisOrderCache_SetAll_StaleGeneration(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	_, generation, err := cache.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}

	// An order lands between reading the store and filling the cache.
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}

	err = cache.SetAll(ctx, []*models.Order{}, generation)
	if !errors.Is(err, ErrStaleListing) {
		t.Fatalf("Expected ErrStaleListing, got %v", err)
	}
	if mr.Exists(orderListKey) {
		t.Error("Expected the stale listing not to be stored")
	}

	got, _, err := cache.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected a miss so the next read goes to the store, got %v", got)
	}
}

func TestRedisOrderCache_Unavailable(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	if _, _, err := cache.GetAll(context.Background()); err == nil {
		t.Error("Expected error when Redis is unavailable")
	}
	if err := cache.Ping(context.Background()); err == nil {
		t.Error("Expected ping error when Redis is unavailable")
	}
}

func TestNewRedisOrderCache_DefaultTTL(t *testing.T) {
	cache := NewRedisOrderCache(redis.NewClient(&redis.Options{}), 0, logging.Discard())

	if cache.ttl != defaultCacheTTL {
		t.Errorf("Expected default TTL %s, got %s", defaultCacheTTL, cache.ttl)
	}
}
