package test

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCheckout(t *testing.T) {
	env := NewTestEnv(t)

	order := map[string]string{
		"customerName":    "Cliente Teste",
		"customerEmail":   "cliente@example.com",
		"customerPhone":   "11999990000",
		"shippingAddress": "Rua Teste, 123",
		"paymentMethod":   "cod",
	}

	// checkout requires a logged-in session
	if status := env.Do(http.MethodPost, "/checkout", order, nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", status)
	}

	env.Register("cliente@example.com", "s3nha-forte")

	// and a non-empty cart
	if status := env.Do(http.MethodPost, "/checkout", order, nil); status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on empty cart, got %d", status)
	}

	add := map[string]interface{}{"productId": 1, "variantId": 10, "quantity": 3}
	if status := env.Do(http.MethodPut, "/cart/items", add, nil); status != http.StatusOK {
		t.Fatalf("add item answered status %d", status)
	}
	add = map[string]interface{}{"productId": 2, "quantity": 1}
	if status := env.Do(http.MethodPut, "/cart/items", add, nil); status != http.StatusOK {
		t.Fatalf("add item answered status %d", status)
	}

	var val struct {
		Valid      bool    `json:"valid"`
		Discount   float64 `json:"discount"`
		FinalTotal float64 `json:"final_total"`
	}
	if status := env.Do(http.MethodPost, "/coupons/validate", map[string]string{"code": "SAVE10"}, &val); status != http.StatusOK {
		t.Fatalf("coupon validation answered status %d", status)
	}
	subtotal := 19.90*3 + 9.99
	if !val.Valid {
		t.Fatal("expected coupon to validate")
	}
	if diff := cmp.Diff(subtotal*0.10, val.Discount, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("discount mismatch (-want +got):\n%s", diff)
	}

	// a bogus code fails checkout before any order is placed
	order["couponCode"] = "NOPE"
	if status := env.Do(http.MethodPost, "/checkout", order, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown coupon, got %d", status)
	}
	if got := len(env.Backend.Orders()); got != 0 {
		t.Fatalf("expected no order placed, got %d", got)
	}

	order["couponCode"] = "SAVE10"
	var created struct {
		ID int64 `json:"id"`
	}
	if status := env.Do(http.MethodPost, "/checkout", order, &created); status != http.StatusCreated {
		t.Fatalf("checkout answered status %d", status)
	}
	if created.ID == 0 {
		t.Fatal("expected the created order in the response")
	}

	orders := env.Backend.Orders()
	if len(orders) != 1 {
		t.Fatalf("expected exactly one order at the backend, got %d", len(orders))
	}
	placed := orders[0]
	if placed.CustomerEmail != "cliente@example.com" || placed.PaymentMethod != "cod" || placed.CouponCode != "SAVE10" {
		t.Fatalf("unexpected order header: %+v", placed)
	}
	if len(placed.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(placed.Items))
	}
	if placed.Items[0].Product != 1 || placed.Items[0].Variant == nil || *placed.Items[0].Variant != 10 || placed.Items[0].Quantity != 3 {
		t.Fatalf("unexpected first item: %+v", placed.Items[0])
	}
	if placed.Items[1].Product != 2 || placed.Items[1].Variant != nil || placed.Items[1].Quantity != 1 {
		t.Fatalf("unexpected second item: %+v", placed.Items[1])
	}

	// a successful checkout empties the cart
	var v cartView
	if status := env.Do(http.MethodGet, "/cart", nil, &v); status != http.StatusOK {
		t.Fatalf("show cart answered status %d", status)
	}
	if len(v.Items) != 0 {
		t.Fatalf("expected empty cart after checkout, got %+v", v.Items)
	}
}
