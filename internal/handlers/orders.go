package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/service"
)

var offered = []string{binding.MIMEHTML, binding.MIMEJSON}

// ShowForm handles GET /
func (h *Handlers) ShowForm(c *gin.Context) {
	c.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  offered,
		HTMLName: "form.html",
		Data:     newFormView(models.OrderInput{}, nil),
	})
}

// SubmitOrder handles POST /receipt
func (h *Handlers) SubmitOrder(c *gin.Context) {
	var input models.OrderInput
	if err := c.ShouldBindWith(&input, binding.Form); err != nil {
		h.logger.WarnContext(c.Request.Context(), "Failed to bind order form", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form body"})
		return
	}

	result, err := h.orderService.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		var verrs service.ValidationErrors
		if errors.As(err, &verrs) {
			c.Negotiate(http.StatusUnprocessableEntity, gin.Negotiate{
				Offered:  offered,
				HTMLName: "form.html",
				Data:     newFormView(input, verrs),
			})
			return
		}
		h.handleError(c, err)
		return
	}

	view := newOrderView(result.Order)
	view.PersistFailed = result.PersistFailed

	c.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  offered,
		HTMLName: "receipt.html",
		Data:     view,
	})
}

// ListOrders handles GET /orders
func (h *Handlers) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  offered,
		HTMLName: "orders.html",
		Data:     newOrdersView(orders),
	})
}

func (h *Handlers) handleError(c *gin.Context, err error) {
	var storageErr *repository.StorageError
	if errors.As(err, &storageErr) {
		h.logger.ErrorContext(c.Request.Context(), "Storage unavailable", "op", storageErr.Op, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order storage unavailable"})
		return
	}

	h.logger.ErrorContext(c.Request.Context(), "Request failed", "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
