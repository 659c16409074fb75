package repository

import (
	"context"
	"testing"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
)

func TestMemoryOrderRepository_RoundTrip(t *testing.T) {
	repo := NewMemoryOrderRepository(logging.Discard())
	ctx := context.Background()

	first := testOrder("first")
	second := testOrder("second")

	if _, err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	orders, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}

	assertSameOrder(t, first, orders[0])
	assertSameOrder(t, second, orders[1])
}

func TestMemoryOrderRepository_StoresCopies(t *testing.T) {
	repo := NewMemoryOrderRepository(logging.Discard())
	ctx := context.Background()

	order := testOrder("o-1")
	if _, err := repo.Save(ctx, order); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	order.Name = "Changed"

	orders, _ := repo.FindAll(ctx)
	if orders[0].Name != "Jane Doe" {
		t.Errorf("Expected stored order to be unaffected by caller changes, got %q", orders[0].Name)
	}

	orders[0].Name = "Changed again"
	again, _ := repo.FindAll(ctx)
	if again[0].Name != "Jane Doe" {
		t.Errorf("Expected FindAll results to be copies, got %q", again[0].Name)
	}
}
