package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"storefront/internal/domain"
)

// maxLineQuantity bounds the quantity a single request may carry.
const maxLineQuantity = 10000

type addItemRequest struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	Image     string   `json:"image"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *handlers) getCart(c *gin.Context) {
	store, ok := storeFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCartResponse(store.Snapshot(), h.deps.Currency))
}

func (h *handlers) addItem(c *gin.Context) {
	store, ok := storeFrom(c)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
		return
	}
	if req.Quantity > maxLineQuantity || req.Quantity < -maxLineQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity out of range"})
		return
	}

	var line domain.CartLine
	if h.deps.Catalog != nil {
		var err error
		line, err = h.deps.Catalog.LineFor(c.Request.Context(), req.ProductID, req.Quantity)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrInvalidInput) {
				h.logger.Error("add item: catalog lookup", zap.String("product_id", req.ProductID), zap.Error(err))
			}
			writeError(c, err)
			return
		}
	} else {
		if req.Price == nil || *req.Price < 0 || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and non-negative price required"})
			return
		}
		if decimal.NewFromFloat(*req.Price).Exponent() < -2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be in whole cents"})
			return
		}
		line = domain.CartLine{
			ProductID: req.ProductID,
			Name:      req.Name,
			Price:     *req.Price,
			Quantity:  req.Quantity,
			Image:     req.Image,
		}
	}

	store.AddItem(c.Request.Context(), line)
	c.JSON(http.StatusOK, toCartResponse(store.Snapshot(), h.deps.Currency))
}

func (h *handlers) updateItem(c *gin.Context) {
	store, ok := storeFrom(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity required"})
		return
	}
	if *req.Quantity > maxLineQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity out of range"})
		return
	}
	store.UpdateQuantity(c.Request.Context(), c.Param("productId"), *req.Quantity)
	c.JSON(http.StatusOK, toCartResponse(store.Snapshot(), h.deps.Currency))
}

func (h *handlers) removeItem(c *gin.Context) {
	store, ok := storeFrom(c)
	if !ok {
		return
	}
	store.RemoveItem(c.Request.Context(), c.Param("productId"))
	c.JSON(http.StatusOK, toCartResponse(store.Snapshot(), h.deps.Currency))
}

func (h *handlers) clearCart(c *gin.Context) {
	store, ok := storeFrom(c)
	if !ok {
		return
	}
	store.ClearCart(c.Request.Context())
	c.JSON(http.StatusOK, toCartResponse(store.Snapshot(), h.deps.Currency))
}
