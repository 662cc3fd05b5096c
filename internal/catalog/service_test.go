package catalog

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubRepo struct {
	product *domain.Product
	list    []domain.Product
	err     error
	lastID  string
}

func (s *stubRepo) List(_ context.Context) ([]domain.Product, error) {
	return s.list, s.err
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

func (s *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, s.err
}

func TestServiceLineFor(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: "p1", Name: "Mug", PriceCents: 1299, Currency: "USD", ImageURL: "https://example.com/mug.jpg"}}
	svc := NewService(repo, "usd")

	line, err := svc.LineFor(context.Background(), " p1 ", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastID != "p1" {
		t.Fatalf("expected trimmed id lookup, got %q", repo.lastID)
	}
	want := domain.CartLine{ProductID: "p1", Name: "Mug", Price: 12.99, Quantity: 2, Image: "https://example.com/mug.jpg"}
	if line != want {
		t.Fatalf("unexpected line %+v", line)
	}
}

func TestServiceLineForValidation(t *testing.T) {
	svc := NewService(&stubRepo{}, "USD")
	_, err := svc.LineFor(context.Background(), "  ", 1)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestServiceLineForNotFound(t *testing.T) {
	svc := NewService(&stubRepo{err: domain.ErrNotFound}, "USD")
	_, err := svc.LineFor(context.Background(), "missing", 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceLineForCurrencyMismatch(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: "p1", Name: "Mug", PriceCents: 1299, Currency: "EUR"}}

	_, err := NewService(repo, "USD").LineFor(context.Background(), "p1", 1)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for EUR product in USD store, got %v", err)
	}

	if _, err := NewService(repo, "").LineFor(context.Background(), "p1", 1); err != nil {
		t.Fatalf("expected any currency to be accepted without a store currency, got %v", err)
	}
}
