package handlers

import (
	"time"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/service"
)

type productField struct {
	Name     string `json:"name"`
	Field    string `json:"field"`
	UnitCost string `json:"unit_cost"`
	Value    string `json:"value"`
}

type formView struct {
	Input     models.OrderInput        `json:"input"`
	Errors    service.ValidationErrors `json:"errors"`
	Provinces []string                 `json:"provinces"`
	Products  []productField           `json:"products"`
}

type lineView struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	UnitCost string `json:"unit_cost"`
	Subtotal string `json:"subtotal"`
}

type orderView struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	Province      string     `json:"province"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	Lines         []lineView `json:"lines"`
	Subtotal      string     `json:"subtotal"`
	ProvinceTax   string     `json:"province_tax"`
	Total         string     `json:"total"`
	CreatedAt     time.Time  `json:"created_at"`
	PersistFailed bool       `json:"persist_failed,omitempty"`
}

type ordersView struct {
	Orders []orderView `json:"orders"`
	Count  int         `json:"count"`
}

func newFormView(in models.OrderInput, errs service.ValidationErrors) formView {
	provinces := service.Provinces()
	codes := make([]string, len(provinces))
	for i, p := range provinces {
		codes[i] = string(p)
	}

	values := [models.ProductCount]string{in.DarkChocolate, in.MilkChocolate, in.Truffle, in.WhiteChocolate}
	products := make([]productField, 0, models.ProductCount)
	for i, p := range models.Products {
		products = append(products, productField{
			Name:     p.Name(),
			Field:    p.FormField(),
			UnitCost: service.UnitCost(p).StringFixed(2),
			Value:    values[i],
		})
	}

	return formView{
		Input:     in,
		Errors:    errs,
		Provinces: codes,
		Products:  products,
	}
}

func newOrderView(o *models.Order) orderView {
	lines := make([]lineView, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = lineView{
			Name:     l.Name,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost.StringFixed(2),
			Subtotal: l.Subtotal.StringFixed(2),
		}
	}

	return orderView{
		ID:          o.ID,
		Name:        o.Name,
		Address:     o.Address,
		City:        o.City,
		Province:    o.Province,
		Phone:       o.Phone,
		Email:       o.Email,
		Lines:       lines,
		Subtotal:    o.Subtotal.StringFixed(2),
		ProvinceTax: o.ProvinceTax.StringFixed(2),
		Total:       o.Total.StringFixed(2),
		CreatedAt:   o.CreatedAt,
	}
}

func newOrdersView(orders []*models.Order) ordersView {
	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = newOrderView(o)
	}
	return ordersView{Orders: views, Count: len(views)}
}
