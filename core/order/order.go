// Package order places and tracks customer orders. Checkout turns the
// session cart into a backend order and empties the cart once the
// backend accepts it.
package order

import (
	"time"

	"github.com/pbrandao/varejo/core/catalog"
)

type Order struct {
	ID              int64      `json:"id"`
	Store           *int64     `json:"store"`
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	CustomerPhone   string     `json:"customer_phone"`
	ShippingAddress string     `json:"shipping_address"`
	Status          string     `json:"status"`
	PaymentMethod   string     `json:"payment_method"`
	PaymentStatus   string     `json:"payment_status"`
	PaidAt          *time.Time `json:"paid_at"`
	DiscountAmount  float64    `json:"discount_amount"`
	TotalAmount     float64    `json:"total_amount"`
	Items           []Item     `json:"items"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Item struct {
	ID             int64            `json:"id"`
	Variant        int64            `json:"variant"`
	VariantDetails *catalog.Variant `json:"variant_details,omitempty"`
	Quantity       int64            `json:"quantity"`
	UnitPrice      float64          `json:"unit_price"`
	Subtotal       float64          `json:"subtotal"`
}

// orderNew is the backend's order-creation payload; line items reference
// products and variants by id, never by price.
type orderNew struct {
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone,omitempty"`
	ShippingAddress string    `json:"shipping_address"`
	Status          string    `json:"status"`
	PaymentMethod   string    `json:"payment_method"`
	CouponCode      string    `json:"coupon_code,omitempty"`
	Items           []itemNew `json:"items"`
}

type itemNew struct {
	Product  int64  `json:"product"`
	Variant  *int64 `json:"variant"`
	Quantity int64  `json:"quantity"`
}
