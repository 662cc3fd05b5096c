package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"storefront/internal/checkout"
)

func TestCheckout_EmptyCartRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	if rec := env.do(t, http.MethodPost, "/checkout/orders", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestCheckout_CreateAndApprove(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodPost, "/cart/items", `{"productId":"1","name":"Tee","price":19.99,"quantity":2}`)

	rec := env.do(t, http.MethodPost, "/checkout/orders", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	var order checkout.OrderRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.PurchaseUnits[0].Amount.Value != "39.98" || order.PurchaseUnits[0].Amount.CurrencyCode != "USD" {
		t.Fatalf("unexpected amount %+v", order.PurchaseUnits[0].Amount)
	}

	rec = env.do(t, http.MethodPost, "/checkout/orders/ORDER-9/approve", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeCart(t, env.do(t, http.MethodGet, "/cart", ""))
	if len(resp.Items) != 0 {
		t.Fatalf("expected cart cleared after approval, got %+v", resp)
	}
}
