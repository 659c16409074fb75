package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product identifies one of the four items sold through the storefront form.
type Product int

const (
	DarkChocolate Product = iota
	MilkChocolate
	Truffle
	WhiteChocolate
)

// ProductCount is the size of the fixed catalog.
const ProductCount = 4

// Products lists the catalog in display order.
var Products = [ProductCount]Product{DarkChocolate, MilkChocolate, Truffle, WhiteChocolate}

var productNames = [ProductCount]string{"Dark Chocolate", "Milk Chocolate", "Truffle", "White Chocolate"}

var productFields = [ProductCount]string{"darkChocolate", "milkChocolate", "truffle", "whiteChocolate"}

// Name returns the display name printed on receipts.
func (p Product) Name() string {
	return productNames[p]
}

// FormField returns the name of the form input carrying the product quantity.
func (p Product) FormField() string {
	return productFields[p]
}

// ProductLine is a single priced row of an order.
type ProductLine struct {
	Name     string          `json:"name"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Quantity int64           `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Quantities holds the requested count for every product.
type Quantities struct {
	Dark    int64 `json:"dark"`
	Milk    int64 `json:"milk"`
	Truffle int64 `json:"truffle"`
	White   int64 `json:"white"`
}

// Of returns the quantity requested for p.
func (q Quantities) Of(p Product) int64 {
	switch p {
	case DarkChocolate:
		return q.Dark
	case MilkChocolate:
		return q.Milk
	case Truffle:
		return q.Truffle
	case WhiteChocolate:
		return q.White
	}
	return 0
}

// Any reports whether at least one product was requested.
func (q Quantities) Any() bool {
	return q.Dark > 0 || q.Milk > 0 || q.Truffle > 0 || q.White > 0
}

// OrderInput is the raw form submission. Nothing in it has been checked.
type OrderInput struct {
	Name           string `form:"name" json:"name"`
	Address        string `form:"address" json:"address"`
	City           string `form:"city" json:"city"`
	Province       string `form:"province" json:"province"`
	Phone          string `form:"phone" json:"phone"`
	Email          string `form:"email" json:"email"`
	DarkChocolate  string `form:"darkChocolate" json:"darkChocolate"`
	MilkChocolate  string `form:"milkChocolate" json:"milkChocolate"`
	Truffle        string `form:"truffle" json:"truffle"`
	WhiteChocolate string `form:"whiteChocolate" json:"whiteChocolate"`
}

// ValidInput is an OrderInput that passed validation, with quantities coerced.
type ValidInput struct {
	Name       string
	Address    string
	City       string
	Province   string
	Phone      string
	Email      string
	Quantities Quantities
}

// Order is a priced and accepted submission. Orders are never modified after creation.
type Order struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Address     string                    `json:"address"`
	City        string                    `json:"city"`
	Province    string                    `json:"province"`
	Phone       string                    `json:"phone"`
	Email       string                    `json:"email"`
	Subtotal    decimal.Decimal           `json:"subtotal"`
	ProvinceTax decimal.Decimal           `json:"province_tax"`
	Total       decimal.Decimal           `json:"total"`
	Lines       [ProductCount]ProductLine `json:"lines"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// ProductNames returns the line names in catalog order.
func (o *Order) ProductNames() []string {
	out := make([]string, len(o.Lines))
	for i, l := range o.Lines {
		out[i] = l.Name
	}
	return out
}

// ProductQuantities returns the line quantities in catalog order.
func (o *Order) ProductQuantities() []int64 {
	out := make([]int64, len(o.Lines))
	for i, l := range o.Lines {
		out[i] = l.Quantity
	}
	return out
}

// ProductUnitCosts returns the line unit costs in catalog order.
func (o *Order) ProductUnitCosts() []decimal.Decimal {
	out := make([]decimal.Decimal, len(o.Lines))
	for i, l := range o.Lines {
		out[i] = l.UnitCost
	}
	return out
}

// ProductSubtotals returns the line subtotals in catalog order.
func (o *Order) ProductSubtotals() []decimal.Decimal {
	out := make([]decimal.Decimal, len(o.Lines))
	for i, l := range o.Lines {
		out[i] = l.Subtotal
	}
	return out
}
