package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"storefront/internal/checkout"
)

func (h *handlers) createOrder(c *gin.Context) {
	store, ok := storeFrom(c)
	if !ok {
		return
	}
	order, err := checkout.BuildOrder(store.Snapshot(), h.deps.Currency)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("create order", zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) approveOrder(c *gin.Context) {
	store, ok := storeFrom(c)
	if !ok {
		return
	}
	orderID := c.Param("orderId")
	if err := h.deps.Approver.Approve(c.Request.Context(), store, orderID); err != nil {
		if errors.Is(err, checkout.ErrMissingOrderID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("approve order", zap.String("order_id", orderID), zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved", "orderId": orderID})
}
