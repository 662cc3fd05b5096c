package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"storefront/internal/cart"
	"storefront/internal/domain"
)

type cartLineResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	LineTotal string  `json:"lineTotal"`
}

type cartResponse struct {
	Items      []cartLineResponse `json:"items"`
	TotalItems int                `json:"totalItems"`
	TotalPrice float64            `json:"totalPrice"`
	Currency   string             `json:"currency"`
}

func toCartResponse(snap cart.Snapshot, currency string) cartResponse {
	items := make([]cartLineResponse, 0, len(snap.Items))
	for _, l := range snap.Items {
		lineTotal := decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
		items = append(items, cartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Image:     l.Image,
			LineTotal: lineTotal.StringFixed(2),
		})
	}
	return cartResponse{
		Items:      items,
		TotalItems: snap.TotalItems,
		TotalPrice: snap.TotalPrice.InexactFloat64(),
		Currency:   currency,
	}
}

type priceValue struct {
	CurrencyCode   string `json:"currencyCode"`
	CentAmount     int64  `json:"centAmount"`
	FractionDigits int    `json:"fractionDigits"`
}

type productResponse struct {
	ID          string     `json:"id"`
	Key         string     `json:"key"`
	SKU         string     `json:"sku"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       priceValue `json:"price"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Key:         p.Key,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       priceValue{CurrencyCode: p.Currency, CentAmount: p.PriceCents, FractionDigits: 2},
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
	}
}

// writeError maps domain errors onto status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
