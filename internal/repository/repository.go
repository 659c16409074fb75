package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// Ensure the implementations satisfy the interfaces.
var (
	_ OrderRepository = (*PostgresOrderRepository)(nil)
	_ OrderRepository = (*MemoryOrderRepository)(nil)
	_ OrderListCache  = (*RedisOrderCache)(nil)
)

// OrderRepository stores accepted orders. Orders are append-only.
type OrderRepository interface {
	// Save persists order and returns its identifier.
	Save(ctx context.Context, order *models.Order) (string, error)

	// FindAll returns every order in the order it was saved.
	FindAll(ctx context.Context) ([]*models.Order, error)
}

// ErrStaleListing is returned by SetAll when the listing was invalidated after
// the GetAll that produced the generation.
var ErrStaleListing = errors.New("order listing changed since it was read")

// OrderListCache keeps a snapshot of the full order listing.
type OrderListCache interface {
	// GetAll returns the cached listing, or nil on a miss. The generation
	// must be handed back to SetAll when filling the miss.
	GetAll(ctx context.Context) ([]*models.Order, int64, error)
	// SetAll stores orders unless Invalidate ran since generation was read.
	SetAll(ctx context.Context, orders []*models.Order, generation int64) error
	// Invalidate drops the listing and advances the generation.
	Invalidate(ctx context.Context) error
}

// StorageError wraps a failure of the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
