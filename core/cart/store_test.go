package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pbrandao/varejo/core/catalog"
)

func intp(v int64) *int64 { return &v }

func floatp(v float64) *float64 { return &v }

func variantProduct(id int64, variants ...catalog.Variant) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     "shirt",
		Variants: variants,
	}
}

func variant(id, productID int64, price float64, stock int64) catalog.Variant {
	return catalog.Variant{
		ID:      id,
		Product: productID,
		SKU:     "SKU-TEST",
		Price:   price,
		Stock:   intp(stock),
	}
}

func simpleProduct(id int64, price float64, stock int64) catalog.Product {
	return catalog.Product{
		ID:    id,
		Name:  "mug",
		Price: floatp(price),
		Stock: intp(stock),
	}
}

func newTestStore(t *testing.T) (*Store, *Memory) {
	t.Helper()
	mem := NewMemory()
	return New("cart-test", Config{Storage: mem, RequireVariant: true}), mem
}

func TestAddMergesSameLine(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p := variantProduct(1, variant(10, 1, 19.90, 50))

	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 2, Product: p})
	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 3, Product: p})

	items := s.Items(ctx)
	if len(items) != 1 {
		t.Fatalf("expected 1 line after merging adds, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", items[0].Quantity)
	}
}

func TestAddKeepsKeysUnique(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p := variantProduct(1,
		variant(10, 1, 19.90, 50),
		variant(11, 1, 21.50, 50),
	)
	q := simpleProduct(2, 5.00, 50)

	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 1, Product: p})
	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(11), Quantity: 1, Product: p})
	s.Add(ctx, ItemNew{ProductID: 2, Quantity: 1, Product: q})
	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 4, Product: p})
	s.Add(ctx, ItemNew{ProductID: 2, Quantity: 2, Product: q})

	items := s.Items(ctx)
	if len(items) != 3 {
		t.Fatalf("expected 3 distinct lines, got %d", len(items))
	}

	seen := make(map[lineKey]bool)
	for _, it := range items {
		if seen[it.key()] {
			t.Fatalf("duplicate cart key %+v", it.key())
		}
		seen[it.key()] = true
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p := variantProduct(1, variant(10, 1, 19.90, 50))
	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 2, Product: p})

	s.Remove(ctx, 1, intp(10))
	if got := len(s.Items(ctx)); got != 0 {
		t.Fatalf("expected empty cart after remove, got %d lines", got)
	}

	// second remove of the same key must be a silent no-op
	s.Remove(ctx, 1, intp(10))
	if got := len(s.Items(ctx)); got != 0 {
		t.Fatalf("expected empty cart after repeated remove, got %d lines", got)
	}
}

func TestUpdateQuantityFloor(t *testing.T) {
	ctx := context.Background()

	for _, target := range []int64{0, -5} {
		s, _ := newTestStore(t)

		p := variantProduct(1, variant(10, 1, 19.90, 50))
		s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 2, Product: p})

		s.UpdateQuantity(ctx, 1, intp(10), target)
		if got := len(s.Items(ctx)); got != 0 {
			t.Fatalf("quantity %d: expected line removed, got %d lines", target, got)
		}
	}
}

func TestAddClampsToStock(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p := variantProduct(1, variant(10, 1, 19.90, 3))

	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 5, Product: p})

	items := s.Items(ctx)
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected quantity clamped to 3, got %d", items[0].Quantity)
	}

	want := 19.90 * 3
	if diff := cmp.Diff(want, s.Total(ctx), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("total mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeClampsToStock(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p := variantProduct(1, variant(10, 1, 19.90, 3))

	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 2, Product: p})
	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 3, Product: p})

	items := s.Items(ctx)
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected single line clamped to 3, got %+v", items)
	}
}

func TestUpdateQuantityClampsToStock(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p := variantProduct(1, variant(10, 1, 19.90, 3))
	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 1, Product: p})

	s.UpdateQuantity(ctx, 1, intp(10), 10)
	if got := s.Items(ctx)[0].Quantity; got != 3 {
		t.Fatalf("expected quantity clamped to 3, got %d", got)
	}
}

func TestUpdateQuantityUnknownStockUnclamped(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	// A service-like product with no stock figure at all.
	p := catalog.Product{ID: 2, Name: "gift wrap", Price: floatp(2.50)}
	s.Add(ctx, ItemNew{ProductID: 2, Quantity: 1, Product: p})

	s.UpdateQuantity(ctx, 2, nil, 100)
	if got := s.Items(ctx)[0].Quantity; got != 100 {
		t.Fatalf("expected unclamped quantity 100, got %d", got)
	}
}

func TestTotalDerivation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p := variantProduct(1, variant(10, 1, 19.90, 50))
	q := simpleProduct(2, 9.99, 10)

	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 3, Product: p})
	s.Add(ctx, ItemNew{ProductID: 2, Quantity: 1, Product: q})

	want := 19.90*3 + 9.99
	if diff := cmp.Diff(want, s.Total(ctx), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("total mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	cfg := Config{Storage: mem, RequireVariant: true}

	s := New("cart-rt", cfg)
	p := variantProduct(1, variant(10, 1, 19.90, 50))
	q := simpleProduct(2, 9.99, 10)
	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 3, Product: p})
	s.Add(ctx, ItemNew{ProductID: 2, Quantity: 1, Product: q})

	reloaded := New("cart-rt", cfg)
	if diff := cmp.Diff(s.Items(ctx), reloaded.Items(ctx)); diff != "" {
		t.Fatalf("reloaded cart differs (-want +got):\n%s", diff)
	}
}

func TestLoadDiscardsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	good := Item{
		ProductID: 1,
		VariantID: intp(10),
		Quantity:  2,
		Product:   variantProduct(1, variant(10, 1, 19.90, 50)),
	}
	goodRaw, err := json.Marshal(good)
	if err != nil {
		t.Fatal(err)
	}

	payload := []byte(`[` + string(goodRaw) + `,{"quantity":3,"product":{"id":9}}]`)
	if err := mem.Save(ctx, "cart-bad", payload); err != nil {
		t.Fatal(err)
	}

	s := New("cart-bad", Config{Storage: mem, RequireVariant: true})
	items := s.Items(ctx)
	if len(items) != 1 {
		t.Fatalf("expected only the well-formed entry to load, got %d", len(items))
	}
	if diff := cmp.Diff(good, items[0]); diff != "" {
		t.Fatalf("loaded entry differs (-want +got):\n%s", diff)
	}
}

func TestLoadUnparseablePayloadStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	if err := mem.Save(ctx, "cart-junk", []byte(`{"not":"a list"`)); err != nil {
		t.Fatal(err)
	}

	s := New("cart-junk", Config{Storage: mem, RequireVariant: true})
	if got := len(s.Items(ctx)); got != 0 {
		t.Fatalf("expected empty cart from junk payload, got %d lines", got)
	}
}

func TestLoadDropsDuplicateKeys(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	it := Item{
		ProductID: 1,
		VariantID: intp(10),
		Quantity:  2,
		Product:   variantProduct(1, variant(10, 1, 19.90, 50)),
	}
	raw, err := json.Marshal([]Item{it, it})
	if err != nil {
		t.Fatal(err)
	}
	if err := mem.Save(ctx, "cart-dup", raw); err != nil {
		t.Fatal(err)
	}

	s := New("cart-dup", Config{Storage: mem, RequireVariant: true})
	if got := len(s.Items(ctx)); got != 1 {
		t.Fatalf("expected duplicate line dropped on load, got %d lines", got)
	}
}

func TestAddIgnoresUnknownVariant(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p := variantProduct(1, variant(10, 1, 19.90, 50))

	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(999), Quantity: 1, Product: p})
	if got := len(s.Items(ctx)); got != 0 {
		t.Fatalf("expected add with unknown variant to be ignored, got %d lines", got)
	}
}

func TestAddVariantPolicy(t *testing.T) {
	ctx := context.Background()
	p := variantProduct(1, variant(10, 1, 19.90, 50))

	strict := New("cart-strict", Config{Storage: NewMemory(), RequireVariant: true})
	strict.Add(ctx, ItemNew{ProductID: 1, Quantity: 1, Product: p})
	if got := len(strict.Items(ctx)); got != 0 {
		t.Fatalf("strict policy: expected variantless add rejected, got %d lines", got)
	}

	lax := New("cart-lax", Config{Storage: NewMemory(), RequireVariant: false})
	lax.Add(ctx, ItemNew{ProductID: 1, Quantity: 1, Product: p})
	if got := len(lax.Items(ctx)); got != 1 {
		t.Fatalf("lax policy: expected variantless add accepted, got %d lines", got)
	}
}

func TestAddOutOfStockNotAdded(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p := variantProduct(1, variant(10, 1, 19.90, 0))

	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 2, Product: p})
	if got := len(s.Items(ctx)); got != 0 {
		t.Fatalf("expected no line for a sold-out variant, got %d", got)
	}
}

type countingStorage struct {
	inner Storage
	saves int
}

func (c *countingStorage) Load(ctx context.Context, id string) ([]byte, error) {
	return c.inner.Load(ctx, id)
}

func (c *countingStorage) Save(ctx context.Context, id string, payload []byte) error {
	c.saves++
	return c.inner.Save(ctx, id, payload)
}

func (c *countingStorage) Delete(ctx context.Context, id string) error {
	return c.inner.Delete(ctx, id)
}

func TestNoopOperationsDoNotPersist(t *testing.T) {
	ctx := context.Background()
	cs := &countingStorage{inner: NewMemory()}
	s := New("cart-noop", Config{Storage: cs, RequireVariant: true})

	p := variantProduct(1, variant(10, 1, 19.90, 3))
	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 2, Product: p})
	saves := cs.saves

	// setting the current quantity again must not write
	s.UpdateQuantity(ctx, 1, intp(10), 2)
	if cs.saves != saves {
		t.Fatalf("no-op update persisted: saves went %d -> %d", saves, cs.saves)
	}

	// removing an absent line must not write
	s.Remove(ctx, 99, nil)
	if cs.saves != saves {
		t.Fatalf("no-op remove persisted: saves went %d -> %d", saves, cs.saves)
	}

	// adding past the clamp with nothing to gain must not write
	s.UpdateQuantity(ctx, 1, intp(10), 3)
	saves = cs.saves
	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 5, Product: p})
	if cs.saves != saves {
		t.Fatalf("clamped no-op add persisted: saves went %d -> %d", saves, cs.saves)
	}
}

type failingStorage struct{}

func (failingStorage) Load(ctx context.Context, id string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingStorage) Save(ctx context.Context, id string, payload []byte) error {
	return errors.New("disk on fire")
}

func (failingStorage) Delete(ctx context.Context, id string) error {
	return errors.New("disk on fire")
}

func TestStorageFailuresAreNonFatal(t *testing.T) {
	ctx := context.Background()
	s := New("cart-fail", Config{Storage: failingStorage{}, RequireVariant: true})

	p := variantProduct(1, variant(10, 1, 19.90, 50))
	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 2, Product: p})

	// in-memory state stays authoritative for the session
	items := s.Items(ctx)
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected in-memory line to survive storage failure, got %+v", items)
	}
}

func TestClearEmptiesAndPersists(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	cfg := Config{Storage: mem, RequireVariant: true}

	s := New("cart-clear", cfg)
	p := variantProduct(1, variant(10, 1, 19.90, 50))
	s.Add(ctx, ItemNew{ProductID: 1, VariantID: intp(10), Quantity: 2, Product: p})

	s.Clear(ctx)
	if got := len(s.Items(ctx)); got != 0 {
		t.Fatalf("expected empty cart after clear, got %d lines", got)
	}

	reloaded := New("cart-clear", cfg)
	if got := len(reloaded.Items(ctx)); got != 0 {
		t.Fatalf("expected persisted empty cart, got %d lines", got)
	}
}

func TestUnitPricePrecedence(t *testing.T) {
	live := variant(10, 1, 25.00, 5)
	product := variantProduct(1, live)

	frozen := variant(10, 1, 19.90, 5)

	cases := []struct {
		name string
		item Item
		want float64
	}{
		{
			name: "variant snapshot wins",
			item: Item{ProductID: 1, VariantID: intp(10), Quantity: 1, Product: product, Variant: &frozen},
			want: 19.90,
		},
		{
			name: "live variant when no snapshot",
			item: Item{ProductID: 1, VariantID: intp(10), Quantity: 1, Product: product},
			want: 25.00,
		},
		{
			name: "product price for variantless line",
			item: Item{ProductID: 2, Quantity: 1, Product: simpleProduct(2, 9.99, 5)},
			want: 9.99,
		},
		{
			name: "zero when nothing resolves",
			item: Item{ProductID: 3, Quantity: 1, Product: catalog.Product{ID: 3}},
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.item.UnitPrice(); got != tc.want {
				t.Fatalf("expected unit price %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSubtotalGuardsCorruptedQuantity(t *testing.T) {
	it := Item{
		ProductID: 2,
		Quantity:  -4,
		Product:   simpleProduct(2, 9.99, 5),
	}
	if got := it.Subtotal(); got != 0 {
		t.Fatalf("expected corrupted quantity to contribute 0, got %v", got)
	}
}

func TestStoresSharesInstancePerCart(t *testing.T) {
	stores := NewStores(Config{Storage: NewMemory(), RequireVariant: true})

	a := stores.Get("cart-a")
	if stores.Get("cart-a") != a {
		t.Fatal("expected the same store for the same cart id")
	}
	if stores.Get("cart-b") == a {
		t.Fatal("expected distinct stores for distinct cart ids")
	}
}
