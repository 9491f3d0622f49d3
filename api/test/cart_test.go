package test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pbrandao/varejo/core/cart"
	"github.com/pbrandao/varejo/core/catalog"
)

type cartView struct {
	Items []cart.Item `json:"items"`
	Total float64     `json:"total"`
}

func TestCartFlow(t *testing.T) {
	env := NewTestEnv(t)

	var v cartView
	if status := env.Do(http.MethodGet, "/cart", nil, &v); status != http.StatusOK {
		t.Fatalf("show cart answered status %d", status)
	}
	if len(v.Items) != 0 || v.Total != 0 {
		t.Fatalf("expected a fresh empty cart, got %+v", v)
	}

	add := func(productID int64, variantID *int64, qty int64) cartView {
		t.Helper()
		in := map[string]interface{}{"productId": productID, "quantity": qty}
		if variantID != nil {
			in["variantId"] = *variantID
		}
		var out cartView
		if status := env.Do(http.MethodPut, "/cart/items", in, &out); status != http.StatusOK {
			t.Fatalf("add item answered status %d", status)
		}
		return out
	}

	v = add(1, intp(10), 3)
	if len(v.Items) != 1 || v.Items[0].Quantity != 3 {
		t.Fatalf("expected one line with quantity 3, got %+v", v.Items)
	}

	// same key merges, and the M-size variant has only 3 in stock
	add(1, intp(11), 2)
	v = add(1, intp(11), 5)
	if len(v.Items) != 2 {
		t.Fatalf("expected two lines, got %d", len(v.Items))
	}
	if q := v.Items[1].Quantity; q != 3 {
		t.Fatalf("expected merged quantity clamped to 3, got %d", q)
	}

	v = add(2, nil, 1)
	want := 19.90*3 + 21.50*3 + 9.99
	if diff := cmp.Diff(want, v.Total, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("total mismatch (-want +got):\n%s", diff)
	}

	// an unknown product never reaches the cart
	if status := env.Do(http.MethodPut, "/cart/items", map[string]interface{}{"productId": 99, "quantity": 1}, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", status)
	}

	// picking no variant on a product that has them is a logged no-op
	v = add(1, nil, 1)
	if len(v.Items) != 3 {
		t.Fatalf("expected variantless add ignored, got %d lines", len(v.Items))
	}

	var out cartView
	in := map[string]interface{}{"variantId": 10, "quantity": 1}
	if status := env.Do(http.MethodPut, "/cart/items/1", in, &out); status != http.StatusOK {
		t.Fatalf("update item answered status %d", status)
	}
	if out.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1 after update, got %d", out.Items[0].Quantity)
	}

	// a zero target removes the line
	in["quantity"] = 0
	if status := env.Do(http.MethodPut, "/cart/items/1", in, &out); status != http.StatusOK {
		t.Fatalf("update item answered status %d", status)
	}
	if len(out.Items) != 2 {
		t.Fatalf("expected line removed, got %+v", out.Items)
	}

	if status := env.Do(http.MethodDelete, "/cart/items/2", nil, nil); status != http.StatusNoContent {
		t.Fatalf("remove item answered status %d", status)
	}
	// removing again stays quiet
	if status := env.Do(http.MethodDelete, "/cart/items/2", nil, nil); status != http.StatusNoContent {
		t.Fatalf("repeated remove answered status %d", status)
	}

	if status := env.Do(http.MethodDelete, "/cart", nil, nil); status != http.StatusNoContent {
		t.Fatalf("clear cart answered status %d", status)
	}
	if env.Do(http.MethodGet, "/cart", nil, &v); len(v.Items) != 0 {
		t.Fatalf("expected cleared cart, got %+v", v.Items)
	}
}

func TestPostgresStorage(t *testing.T) {
	db := startPostgres(t)
	st := cart.NewPostgres(db)
	ctx := context.Background()

	if _, err := st.Load(ctx, "missing"); err != cart.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// jsonb reformats what it stores, so compare decoded items
	items := []cart.Item{{ProductID: 1, Quantity: 2, Product: catalog.Product{ID: 1}}}
	payload, err := json.Marshal(items)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(ctx, "c1", payload); err != nil {
		t.Fatal(err)
	}

	got, err := st.Load(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	var loaded []cart.Item
	if err := json.Unmarshal(got, &loaded); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(items, loaded); diff != "" {
		t.Fatalf("reloaded payload differs (-want +got):\n%s", diff)
	}

	// saving again upserts
	if err := st.Save(ctx, "c1", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	got, err = st.Load(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(got, &loaded); err != nil || len(loaded) != 0 {
		t.Fatalf("expected upserted empty payload, got %s (%v)", got, err)
	}

	if err := st.Delete(ctx, "c1"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(ctx, "c1"); err != cart.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
