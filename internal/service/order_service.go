package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
)

// PlaceOrderResult is the outcome of an accepted submission.
type PlaceOrderResult struct {
	Order *models.Order
	// PersistFailed is set when the order was priced but could not be stored.
	PersistFailed bool
}

// OrderService handles order business logic.
type OrderService struct {
	orderRepo  repository.OrderRepository
	orderCache repository.OrderListCache
	publisher  events.Publisher
	validator  *OrderValidator
	metrics    *metrics.Metrics
	logger     *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewOrderService creates a new order service. orderCache may be nil to disable caching.
func NewOrderService(
	orderRepo repository.OrderRepository,
	orderCache repository.OrderListCache,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		orderCache: orderCache,
		publisher:  publisher,
		validator:  NewOrderValidator(),
		metrics:    m,
		logger:     logger.With("component", "order-service"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// PlaceOrder validates, prices and stores a form submission.
// A ValidationErrors error means nothing was stored and the form should be shown again.
func (s *OrderService) PlaceOrder(ctx context.Context, in models.OrderInput) (*PlaceOrderResult, error) {
	valid, verrs := s.validator.Validate(in)
	if len(verrs) > 0 {
		for _, fe := range verrs {
			s.metrics.ValidationFailures.WithLabelValues(fe.Field).Inc()
		}
		s.logger.InfoContext(ctx, "Order rejected", "error_count", len(verrs))
		return nil, verrs
	}

	pricing := Price(valid.Quantities, valid.Province)

	order := &models.Order{
		ID:          s.newID(),
		Name:        valid.Name,
		Address:     valid.Address,
		City:        valid.City,
		Province:    valid.Province,
		Phone:       valid.Phone,
		Email:       valid.Email,
		Subtotal:    pricing.Subtotal,
		ProvinceTax: pricing.ProvinceTax,
		Total:       pricing.Total,
		Lines:       pricing.Lines,
		CreatedAt:   s.now().UTC(),
	}

	s.metrics.OrdersPlaced.Inc()
	s.metrics.OrderTotal.Observe(order.Total.InexactFloat64())

	result := &PlaceOrderResult{Order: order}

	if _, err := s.orderRepo.Save(ctx, order); err != nil {
		// The customer still gets a receipt; the failure is flagged on it.
		s.logger.ErrorContext(ctx, "Failed to persist order",
			"order_id", order.ID,
			"error", err.Error(),
		)
		s.metrics.PersistFailures.Inc()
		result.PersistFailed = true
		return result, nil
	}

	if s.orderCache != nil {
		if err := s.orderCache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "Failed to invalidate order cache", "error", err.Error())
		}
	}

	if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish order placed event",
			"order_id", order.ID,
			"error", err.Error(),
		)
	}

	s.logger.InfoContext(ctx, "Order placed",
		"order_id", order.ID,
		"province", order.Province,
		"total", order.Total.StringFixed(2),
	)

	return result, nil
}

// ListOrders returns every stored order in the order they were placed.
func (s *OrderService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	var generation int64
	cacheUsable := false
	if s.orderCache != nil {
		cached, gen, err := s.orderCache.GetAll(ctx)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "Order cache unavailable, reading from store", "error", err.Error())
		case cached != nil:
			return cached, nil
		default:
			generation, cacheUsable = gen, true
		}
	}

	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if cacheUsable {
		err := s.orderCache.SetAll(ctx, orders, generation)
		switch {
		case errors.Is(err, repository.ErrStaleListing):
			s.logger.DebugContext(ctx, "Order listing changed while reading, not cached")
		case err != nil:
			s.logger.WarnContext(ctx, "Failed to cache order listing", "error", err.Error())
		}
	}

	return orders, nil
}
