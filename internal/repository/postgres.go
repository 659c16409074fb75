package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS orders (
		seq                BIGSERIAL PRIMARY KEY,
		id                 TEXT NOT NULL UNIQUE,
		name               TEXT NOT NULL,
		address            TEXT NOT NULL,
		city               TEXT NOT NULL,
		province           TEXT NOT NULL,
		phone              TEXT NOT NULL,
		email              TEXT NOT NULL,
		subtotal           NUMERIC(12,2) NOT NULL,
		province_tax       NUMERIC(12,2) NOT NULL,
		total              NUMERIC(12,2) NOT NULL,
		product_names      TEXT[] NOT NULL,
		product_quantities BIGINT[] NOT NULL,
		product_unit_costs NUMERIC(12,2)[] NOT NULL,
		product_subtotals  NUMERIC(12,2)[] NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresOrderRepository implements OrderRepository using PostgreSQL.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB, logger *slog.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:     db,
		logger: logger.With("component", "order-repository"),
	}
}

// EnsureSchema creates the orders table when it does not exist yet.
func (r *PostgresOrderRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return &StorageError{Op: "ensure schema", Err: err}
	}
	return nil
}

// Save inserts a new order row.
func (r *PostgresOrderRepository) Save(ctx context.Context, order *models.Order) (string, error) {
	r.logger.DebugContext(ctx, "Saving order", "order_id", order.ID)

	query := `
		INSERT INTO orders (
			id, name, address, city, province, phone, email,
			subtotal, province_tax, total,
			product_names, product_quantities, product_unit_costs, product_subtotals,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.Name,
		order.Address,
		order.City,
		order.Province,
		order.Phone,
		order.Email,
		order.Subtotal,
		order.ProvinceTax,
		order.Total,
		pq.Array(order.ProductNames()),
		pq.Array(order.ProductQuantities()),
		pq.Array(decimalStrings(order.ProductUnitCosts())),
		pq.Array(decimalStrings(order.ProductSubtotals())),
		order.CreatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save order",
			"order_id", order.ID,
			"error", err.Error(),
		)
		return "", &StorageError{Op: "save order", Err: err}
	}

	r.logger.InfoContext(ctx, "Order saved",
		"order_id", order.ID,
		"total", order.Total.StringFixed(2),
	)

	return order.ID, nil
}

// FindAll retrieves every order in insertion order.
func (r *PostgresOrderRepository) FindAll(ctx context.Context) ([]*models.Order, error) {
	query := `
		SELECT id, name, address, city, province, phone, email,
		       subtotal, province_tax, total,
		       product_names, product_quantities, product_unit_costs, product_subtotals,
		       created_at
		FROM orders
		ORDER BY seq ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list orders", "error", err.Error())
		return nil, &StorageError{Op: "list orders", Err: err}
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, &StorageError{Op: "scan order", Err: err}
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list orders", Err: err}
	}

	r.logger.DebugContext(ctx, "Orders listed", "count", len(orders))

	return orders, nil
}

// Ping checks the database connection.
func (r *PostgresOrderRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresOrderRepository) scanOrder(rows *sql.Rows) (*models.Order, error) {
	var order models.Order
	var names, unitCosts, subtotals pq.StringArray
	var quantities pq.Int64Array

	err := rows.Scan(
		&order.ID,
		&order.Name,
		&order.Address,
		&order.City,
		&order.Province,
		&order.Phone,
		&order.Email,
		&order.Subtotal,
		&order.ProvinceTax,
		&order.Total,
		&names,
		&quantities,
		&unitCosts,
		&subtotals,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(names) != models.ProductCount || len(quantities) != models.ProductCount ||
		len(unitCosts) != models.ProductCount || len(subtotals) != models.ProductCount {
		return nil, fmt.Errorf("order %s: expected %d product lines", order.ID, models.ProductCount)
	}

	for i := range order.Lines {
		unitCost, err := decimal.NewFromString(unitCosts[i])
		if err != nil {
			return nil, fmt.Errorf("order %s: unit cost: %w", order.ID, err)
		}
		subtotal, err := decimal.NewFromString(subtotals[i])
		if err != nil {
			return nil, fmt.Errorf("order %s: line subtotal: %w", order.ID, err)
		}
		order.Lines[i] = models.ProductLine{
			Name:     names[i],
			UnitCost: unitCost,
			Quantity: quantities[i],
			Subtotal: subtotal,
		}
	}

	return &order, nil
}

func decimalStrings(values []decimal.Decimal) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.StringFixed(2)
	}
	return out
}
