package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/storage"
)

type sessionOpener interface {
	Open(ctx context.Context, id string) (*cart.Store, func())
}

type catalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	LineFor(ctx context.Context, productID string, quantity int) (domain.CartLine, error)
}

type approver interface {
	Approve(ctx context.Context, store *cart.Store, orderID string) error
}

// Deps holds the services the routes delegate to. Catalog may be nil, in
// which case add-to-cart trusts the line sent by the client.
type Deps struct {
	Sessions    sessionOpener
	Catalog     catalogService
	Approver    approver
	Currency    string
	CORSOrigins []string
	ReadyChecks map[string]storage.Pinger
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Sessions == nil {
		return nil, errors.New("httpserver: sessions required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Approver == nil {
		deps.Approver = checkout.NewApprover(logger)
	}
	if deps.Currency == "" {
		deps.Currency = "USD"
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(zap.NewStdLog(logger).Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", sessionHeader},
			ExposeHeaders:    []string{sessionHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.ReadyChecks))

	h := &handlers{deps: deps, logger: logger}

	products := router.Group("/products")
	products.GET("", h.listProducts)
	products.GET("/:id", h.getProduct)

	carts := router.Group("/cart", sessionMiddleware(), cartProvider(deps.Sessions))
	carts.GET("", h.getCart)
	carts.DELETE("", h.clearCart)
	carts.POST("/items", h.addItem)
	carts.PUT("/items/:productId", h.updateItem)
	carts.DELETE("/items/:productId", h.removeItem)

	orders := router.Group("/checkout/orders", sessionMiddleware(), cartProvider(deps.Sessions))
	orders.POST("", h.createOrder)
	orders.POST("/:orderId/approve", h.approveOrder)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
