package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

var orderColumns = []string{
	"id", "name", "address", "city", "province", "phone", "email",
	"subtotal", "province_tax", "total",
	"product_names", "product_quantities", "product_unit_costs", "product_subtotals",
	"created_at",
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testOrder(id string) *models.Order {
	return &models.Order{
		ID:          id,
		Name:        "Jane Doe",
		Address:     "1 King St W",
		City:        "Toronto",
		Province:    "ON",
		Phone:       "4165550100",
		Email:       "jane@example.com",
		Subtotal:    dec("12.00"),
		ProvinceTax: dec("1.56"),
		Total:       dec("13.56"),
		Lines: [models.ProductCount]models.ProductLine{
			{Name: "Dark Chocolate", UnitCost: dec("3.50"), Quantity: 2, Subtotal: dec("7.00")},
			{Name: "Milk Chocolate", UnitCost: dec("2.00"), Quantity: 0, Subtotal: dec("0.00")},
			{Name: "Truffle", UnitCost: dec("5.00"), Quantity: 1, Subtotal: dec("5.00")},
			{Name: "White Chocolate", UnitCost: dec("1.50"), Quantity: 0, Subtotal: dec("0.00")},
		},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func assertSameOrder(t *testing.T, want, got *models.Order) {
	t.Helper()

	if got.ID != want.ID || got.Name != want.Name || got.Address != want.Address ||
		got.City != want.City || got.Province != want.Province ||
		got.Phone != want.Phone || got.Email != want.Email {
		t.Errorf("Contact fields differ: want %+v, got %+v", want, got)
	}
	if !got.Subtotal.Equal(want.Subtotal) || !got.ProvinceTax.Equal(want.ProvinceTax) || !got.Total.Equal(want.Total) {
		t.Errorf("Totals differ: want %s/%s/%s, got %s/%s/%s",
			want.Subtotal, want.ProvinceTax, want.Total, got.Subtotal, got.ProvinceTax, got.Total)
	}
	for i := range want.Lines {
		w, g := want.Lines[i], got.Lines[i]
		if g.Name != w.Name || g.Quantity != w.Quantity || !g.UnitCost.Equal(w.UnitCost) || !g.Subtotal.Equal(w.Subtotal) {
			t.Errorf("Line %d differs: want %+v, got %+v", i, w, g)
		}
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt differs: want %s, got %s", want.CreatedAt, got.CreatedAt)
	}
}

// captureArg records the driver value the repository sent for one placeholder.
type captureArg struct {
	value *driver.Value
}

func (c captureArg) Match(v driver.Value) bool {
	*c.value = v
	return true
}

func newMockRepository(t *testing.T) (*PostgresOrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewPostgresOrderRepository(db, logging.Discard()), mock
}

func TestPostgresOrderRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS orders").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestPostgresOrderRepository_SaveAndFindAll_RoundTrip(t *testing.T) {
	repo, mock := newMockRepository(t)
	ctx := context.Background()
	order := testOrder("8a3c55e2-3b5e-4f3f-9a53-1b1f9f0f6d10")

	captured := make([]driver.Value, len(orderColumns))
	args := make([]driver.Value, len(orderColumns))
	for i := range captured {
		args[i] = captureArg{value: &captured[i]}
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs(args...).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.Save(ctx, order)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if id != order.ID {
		t.Errorf("Expected ID %s, got %s", order.ID, id)
	}

	rows := sqlmock.NewRows(orderColumns).AddRow(captured...)
	mock.ExpectQuery("SELECT (.+) FROM orders ORDER BY seq ASC").WillReturnRows(rows)

	orders, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(orders))
	}

	assertSameOrder(t, order, orders[0])

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestPostgresOrderRepository_FindAll_PreservesRowOrder(t *testing.T) {
	repo, mock := newMockRepository(t)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(orderColumns)
	for _, id := range []string{"first", "second", "third"} {
		rows.AddRow(id, "Jane", "1 King St", "Toronto", "ON", "4165550100", "jane@example.com",
			"3.50", "0.46", "3.96",
			`{"Dark Chocolate","Milk Chocolate","Truffle","White Chocolate"}`,
			"{1,0,0,0}",
			"{3.50,2.00,5.00,1.50}",
			"{3.50,0.00,0.00,0.00}",
			created,
		)
	}
	mock.ExpectQuery("SELECT (.+) FROM orders").WillReturnRows(rows)

	orders, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("Expected 3 orders, got %d", len(orders))
	}
	for i, want := range []string{"first", "second", "third"} {
		if orders[i].ID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, orders[i].ID)
		}
	}
	if !orders[0].Lines[0].UnitCost.Equal(dec("3.50")) {
		t.Errorf("Expected dark unit cost 3.50, got %s", orders[0].Lines[0].UnitCost)
	}
}

func TestPostgresOrderRepository_FindAll_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM orders").WillReturnRows(sqlmock.NewRows(orderColumns))

	orders, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if orders == nil || len(orders) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", orders)
	}
}

func TestPostgresOrderRepository_FindAll_BadProductColumns(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows(orderColumns).AddRow(
		"broken", "Jane", "1 King St", "Toronto", "ON", "4165550100", "jane@example.com",
		"3.50", "0.46", "3.96",
		`{"Dark Chocolate"}`, "{1}", "{3.50}", "{3.50}",
		time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM orders").WillReturnRows(rows)

	_, err := repo.FindAll(context.Background())

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Expected StorageError, got %v", err)
	}
}

func TestPostgresOrderRepository_Save_Error(t *testing.T) {
	repo, mock := newMockRepository(t)
	boom := errors.New("connection reset")

	mock.ExpectExec("INSERT INTO orders").WillReturnError(boom)

	_, err := repo.Save(context.Background(), testOrder("o-1"))

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Expected StorageError, got %v", err)
	}
	if storageErr.Op != "save order" {
		t.Errorf("Expected op 'save order', got %q", storageErr.Op)
	}
	if !errors.Is(err, boom) {
		t.Error("Expected StorageError to unwrap to the driver error")
	}
}

func TestPostgresOrderRepository_FindAll_QueryError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM orders").WillReturnError(errors.New("relation does not exist"))

	_, err := repo.FindAll(context.Background())

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Expected StorageError, got %v", err)
	}
}
