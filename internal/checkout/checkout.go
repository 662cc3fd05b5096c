// Package checkout turns a cart into the order request the payment provider's
// hosted buttons submit, and clears the cart once the provider approves the
// capture.
package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"storefront/internal/cart"
)

var (
	ErrEmptyCart      = errors.New("checkout: cart is empty")
	ErrMissingOrderID = errors.New("checkout: order id required")
)

type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type Breakdown struct {
	ItemTotal Money `json:"item_total"`
}

type Amount struct {
	Money
	Breakdown Breakdown `json:"breakdown"`
}

type Item struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	Quantity   string `json:"quantity"`
	UnitAmount Money  `json:"unit_amount"`
}

type PurchaseUnit struct {
	Amount Amount `json:"amount"`
	Items  []Item `json:"items"`
}

// OrderRequest is the create-order body for the payment provider.
type OrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

// BuildOrder prices every line of snap in currency. Unit amounts are rounded
// to cents and the item total is summed from them, so the breakdown always
// matches the items. For whole-cent prices it equals the cart's total price.
func BuildOrder(snap cart.Snapshot, currency string) (OrderRequest, error) {
	if len(snap.Items) == 0 {
		return OrderRequest{}, ErrEmptyCart
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))

	items := make([]Item, 0, len(snap.Items))
	itemTotal := decimal.Zero
	for _, line := range snap.Items {
		unit := decimal.NewFromFloat(line.Price).Round(2)
		qty := decimal.NewFromInt(int64(line.Quantity))
		itemTotal = itemTotal.Add(unit.Mul(qty))
		items = append(items, Item{
			Name:       line.Name,
			SKU:        line.ProductID,
			Quantity:   qty.String(),
			UnitAmount: money(currency, unit),
		})
	}
	total := money(currency, itemTotal)

	return OrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []PurchaseUnit{{
			Amount: Amount{
				Money:     total,
				Breakdown: Breakdown{ItemTotal: total},
			},
			Items: items,
		}},
	}, nil
}

func money(currency string, v decimal.Decimal) Money {
	return Money{CurrencyCode: currency, Value: v.StringFixed(2)}
}

// Approver handles the provider's capture-approval callback.
type Approver struct {
	logger *zap.Logger
}

func NewApprover(logger *zap.Logger) *Approver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Approver{logger: logger}
}

// Approve records the approved order and empties the cart.
func (a *Approver) Approve(ctx context.Context, store *cart.Store, orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ErrMissingOrderID
	}
	snap := store.Snapshot()
	store.ClearCart(ctx)
	a.logger.Info("checkout: capture approved",
		zap.String("order_id", orderID),
		zap.Int("total_items", snap.TotalItems),
		zap.String("total_price", snap.TotalPrice.StringFixed(2)),
	)
	return nil
}
