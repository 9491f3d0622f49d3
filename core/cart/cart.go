// Package cart holds the session-scoped shopping cart: an ordered list of
// line items keyed by (product, variant), with merge-on-add, stock
// clamping, derived totals and best-effort persistence behind a small
// storage port. Operations never fail outward; anything suspicious is
// logged and degrades to a no-op so the cart keeps working.
package cart

import (
	"github.com/pbrandao/varejo/core/catalog"
)

// Item is one cart line. Product is a snapshot captured when the line was
// added, so display data and prices resolve without a network round-trip.
// Variant freezes the chosen variant as the user saw it; the live variant
// may change server-side afterwards.
type Item struct {
	ProductID int64            `json:"productId"`
	VariantID *int64           `json:"variantId"`
	Quantity  int64            `json:"quantity"`
	Product   catalog.Product  `json:"product"`
	Variant   *catalog.Variant `json:"variant,omitempty"`
}

// lineKey is the cart's primary key: no two lines share one. A nil
// variant id maps to zero, which real variant ids never use.
type lineKey struct {
	product int64
	variant int64
}

func keyOf(productID int64, variantID *int64) lineKey {
	k := lineKey{product: productID}
	if variantID != nil {
		k.variant = *variantID
	}
	return k
}

func (it Item) key() lineKey {
	return keyOf(it.ProductID, it.VariantID)
}

// UnitPrice resolves the line's price from exactly one source, in order:
// the frozen variant snapshot, the live variant inside the product
// snapshot, the product's own price, zero.
func (it Item) UnitPrice() float64 {
	if it.Variant != nil {
		return it.Variant.Price
	}
	if it.VariantID != nil {
		if v := it.Product.FindVariant(*it.VariantID); v != nil {
			return v.Price
		}
		return 0
	}
	if it.Product.Price != nil {
		return *it.Product.Price
	}
	return 0
}

// Subtotal guards against a corrupted persisted quantity; anything not
// strictly positive counts as zero.
func (it Item) Subtotal() float64 {
	if it.Quantity <= 0 {
		return 0
	}
	return it.UnitPrice() * float64(it.Quantity)
}

// availableStock resolves how many units the line may hold. For a variant
// line the live variant wins, then the frozen snapshot; a variant without
// a stock figure counts as sold out. A variantless line uses the product's
// stock; a product without one has unknown stock and goes unclamped.
func (it Item) availableStock() (stock int64, known bool) {
	if it.VariantID != nil {
		if v := it.Product.FindVariant(*it.VariantID); v != nil {
			return stockOrZero(v.Stock), true
		}
		if it.Variant != nil {
			return stockOrZero(it.Variant.Stock), true
		}
		return 0, false
	}
	if it.Product.Stock != nil {
		return *it.Product.Stock, true
	}
	return 0, false
}

func stockOrZero(s *int64) int64 {
	if s == nil {
		return 0
	}
	return *s
}

// valid is the load-time entry filter: a line needs a product id, a
// product snapshot and a positive quantity to survive a reload.
func (it Item) valid() bool {
	return it.ProductID > 0 && it.Product.ID == it.ProductID && it.Quantity > 0
}
