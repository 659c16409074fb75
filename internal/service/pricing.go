package service

import (
	"github.com/shopspring/decimal"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

var unitCosts = [models.ProductCount]decimal.Decimal{
	models.DarkChocolate:  decimal.RequireFromString("3.50"),
	models.MilkChocolate:  decimal.RequireFromString("2.00"),
	models.Truffle:        decimal.RequireFromString("5.00"),
	models.WhiteChocolate: decimal.RequireFromString("1.50"),
}

// UnitCost returns the catalog price of p.
func UnitCost(p models.Product) decimal.Decimal {
	return unitCosts[p]
}

// OrderPricing represents the pricing breakdown for an order.
type OrderPricing struct {
	Lines       [models.ProductCount]models.ProductLine
	Subtotal    decimal.Decimal
	ProvinceTax decimal.Decimal
	Total       decimal.Decimal
}

// CalculateTax computes tax on subtotal, rounded to cents.
func CalculateTax(subtotal, taxRate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRate).Round(2)
}

// Price computes every line, the subtotal, the provincial tax and the total.
// Quantities are expected to be non-negative; an unrecognized province is taxed at zero.
func Price(q models.Quantities, province string) OrderPricing {
	var pricing OrderPricing
	subtotal := decimal.Zero

	for i, p := range models.Products {
		qty := q.Of(p)
		line := models.ProductLine{
			Name:     p.Name(),
			UnitCost: unitCosts[p],
			Quantity: qty,
			Subtotal: unitCosts[p].Mul(decimal.NewFromInt(qty)),
		}
		pricing.Lines[i] = line
		subtotal = subtotal.Add(line.Subtotal)
	}

	pricing.Subtotal = subtotal
	pricing.ProvinceTax = CalculateTax(subtotal, RateFor(province))
	pricing.Total = subtotal.Add(pricing.ProvinceTax)
	return pricing
}
