package handlers

import (
	"context"
	"log/slog"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/service"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handlers for the storefront.
type Handlers struct {
	orderService *service.OrderService
	checks       map[string]Pinger
	logger       *slog.Logger
}

// NewHandlers creates a new handlers instance. checks are reported by /ready.
func NewHandlers(
	orderService *service.OrderService,
	checks map[string]Pinger,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		orderService: orderService,
		checks:       checks,
		logger:       logger.With("component", "handlers"),
	}
}
