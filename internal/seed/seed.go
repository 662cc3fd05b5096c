package seed

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

// ProductWriter is the catalog write path used for seeding.
type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Products returns the demo catalog.
func Products() []domain.Product {
	return []domain.Product{
		{
			Key:         "demo-shirt",
			SKU:         "SKU-DEMO-TSHIRT",
			Name:        "Demo T-Shirt",
			Description: "Soft cotton tee for demo purposes",
			PriceCents:  1999,
			Currency:    "USD",
			ImageURL:    "https://images.example.com/demo-shirt.jpg",
		},
		{
			Key:         "demo-mug",
			SKU:         "SKU-DEMO-MUG",
			Name:        "Demo Mug",
			Description: "Ceramic mug with demo logo",
			PriceCents:  1299,
			Currency:    "USD",
			ImageURL:    "https://images.example.com/demo-mug.jpg",
		},
		{
			Key:        "demo-sticker",
			SKU:        "SKU-DEMO-STICKER",
			Name:       "Demo Sticker",
			PriceCents: 250,
			Currency:   "USD",
		},
	}
}

// Apply inserts basic seed data for manual testing. It is idempotent since
// products upsert by key.
func Apply(ctx context.Context, repo ProductWriter) (int, error) {
	n := 0
	for _, p := range Products() {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return n, fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
		n++
	}
	return n, nil
}
