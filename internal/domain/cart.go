package domain

// CartLine is one product entry in a visitor's cart. Display fields are
// captured when the product is first added and are never refreshed.
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}
