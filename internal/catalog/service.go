package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

type Service struct {
	repo     Repository
	currency string
}

// NewService builds a catalog service for a store selling in currency. An
// empty currency accepts products in any currency.
func NewService(repo Repository, currency string) *Service {
	return &Service{repo: repo, currency: strings.ToUpper(strings.TrimSpace(currency))}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// LineFor captures the product's current name, price and image into a cart
// line candidate. Products priced in another currency than the store's are
// rejected as invalid input.
func (s *Service) LineFor(ctx context.Context, productID string, quantity int) (domain.CartLine, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return domain.CartLine{}, fmt.Errorf("productId required: %w", domain.ErrInvalidInput)
	}
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return domain.CartLine{}, err
	}
	if s.currency != "" && !strings.EqualFold(p.Currency, s.currency) {
		return domain.CartLine{}, fmt.Errorf("product %s is priced in %s, store sells in %s: %w", p.ID, p.Currency, s.currency, domain.ErrInvalidInput)
	}
	return LineFromProduct(*p, quantity), nil
}

// LineFromProduct converts integer cents into the display price of a line.
func LineFromProduct(p domain.Product, quantity int) domain.CartLine {
	return domain.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     decimal.New(p.PriceCents, -2).InexactFloat64(),
		Quantity:  quantity,
		Image:     p.ImageURL,
	}
}
