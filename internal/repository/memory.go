package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// MemoryOrderRepository keeps orders in process memory. Contents are lost on restart.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
	logger *slog.Logger
}

// NewMemoryOrderRepository creates an empty in-memory repository.
func NewMemoryOrderRepository(logger *slog.Logger) *MemoryOrderRepository {
	logger.Warn("Using in-memory order repository; orders will not survive a restart")
	return &MemoryOrderRepository{
		logger: logger.With("component", "order-repository"),
	}
}

func (r *MemoryOrderRepository) Save(ctx context.Context, order *models.Order) (string, error) {
	r.mu.Lock()
	r.orders = append(r.orders, *order)
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "Order saved", "order_id", order.ID)
	return order.ID, nil
}

func (r *MemoryOrderRepository) FindAll(ctx context.Context) ([]*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Order, len(r.orders))
	for i := range r.orders {
		o := r.orders[i]
		out[i] = &o
	}
	return out, nil
}
