// Package purchase covers the seller's inbound side: suppliers and
// purchase orders, including partial stock receiving.
package purchase

import (
	"time"
)

type Supplier struct {
	ID          int64  `json:"id"`
	Store       int64  `json:"store"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

type SupplierNew struct {
	Store       int64  `json:"store"`
	Name        string `json:"name" validate:"required"`
	ContactName string `json:"contact_name,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Order statuses follow the backend's lifecycle, DRAFT through
// RECEIVED_FULL or CANCELLED.
type Order struct {
	ID                   int64      `json:"id"`
	Store                int64      `json:"store"`
	Supplier             int64      `json:"supplier"`
	SupplierName         string     `json:"supplier_name"`
	Status               string     `json:"status"`
	OrderDate            time.Time  `json:"order_date"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
	TotalCost            float64    `json:"total_cost"`
	Notes                string     `json:"notes"`
	Items                []Item     `json:"po_items"`
}

type Item struct {
	ID               int64   `json:"id"`
	PurchaseOrder    int64   `json:"purchase_order"`
	Variant          int64   `json:"variant"`
	OrderedQuantity  int64   `json:"ordered_quantity"`
	ReceivedQuantity int64   `json:"received_quantity"`
	UnitCost         float64 `json:"unit_cost"`
	VariantName      string  `json:"variant_name"`
	ProductName      string  `json:"product_name"`
	SKU              string  `json:"sku"`
	TotalCost        float64 `json:"total_cost"`
}

type OrderNew struct {
	Store                int64     `json:"store"`
	Supplier             int64     `json:"supplier" validate:"required,gt=0"`
	Status               string    `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PENDING ORDERED"`
	ExpectedDeliveryDate *string   `json:"expected_delivery_date,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	Items                []ItemNew `json:"po_items" validate:"required,min=1,dive"`
}

type ItemNew struct {
	Variant         int64   `json:"variant" validate:"required,gt=0"`
	OrderedQuantity int64   `json:"ordered_quantity" validate:"required,gt=0"`
	UnitCost        float64 `json:"unit_cost" validate:"gte=0"`
}

// Receipt reports how many units arrived for one order line.
type Receipt struct {
	ID               int64 `json:"id" validate:"required,gt=0"`
	ReceivedQuantity int64 `json:"received_quantity" validate:"required,gt=0"`
}
