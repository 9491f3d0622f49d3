// Package coupon proxies the commerce backend's discount coupons and
// validates a code against the session cart's total.
package coupon

import (
	"time"
)

type Coupon struct {
	ID                int64     `json:"id"`
	Code              string    `json:"code"`
	Description       string    `json:"description"`
	DiscountType      string    `json:"discount_type"`
	DiscountValue     float64   `json:"discount_value"`
	MinPurchaseAmount float64   `json:"min_purchase_amount"`
	MaxDiscountAmount *float64  `json:"max_discount_amount"`
	UsageLimit        *int64    `json:"usage_limit"`
	UsageCount        int64     `json:"usage_count"`
	ValidFrom         time.Time `json:"valid_from"`
	ValidUntil        time.Time `json:"valid_until"`
	IsActive          bool      `json:"is_active"`
	IsValidNow        bool      `json:"is_valid_now"`
	ValidMessage      string    `json:"valid_message"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Validation is the backend's answer to a code check: the discount it
// grants on the given total and what the total becomes.
type Validation struct {
	Valid      bool    `json:"valid"`
	Coupon     Coupon  `json:"coupon"`
	Discount   float64 `json:"discount"`
	FinalTotal float64 `json:"final_total"`
}

type CouponNew struct {
	Code              string   `json:"code" validate:"required"`
	Description       string   `json:"description,omitempty"`
	DiscountType      string   `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue     float64  `json:"discount_value" validate:"required,gt=0"`
	MinPurchaseAmount *float64 `json:"min_purchase_amount,omitempty" validate:"omitempty,gte=0"`
	MaxDiscountAmount *float64 `json:"max_discount_amount,omitempty" validate:"omitempty,gt=0"`
	UsageLimit        *int64   `json:"usage_limit,omitempty" validate:"omitempty,gt=0"`
	ValidFrom         string   `json:"valid_from" validate:"required"`
	ValidUntil        string   `json:"valid_until" validate:"required"`
	IsActive          *bool    `json:"is_active,omitempty"`
}

type CouponUp struct {
	Code              *string  `json:"code,omitempty"`
	Description       *string  `json:"description,omitempty"`
	DiscountType      *string  `json:"discount_type,omitempty" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue     *float64 `json:"discount_value,omitempty" validate:"omitempty,gt=0"`
	MinPurchaseAmount *float64 `json:"min_purchase_amount,omitempty" validate:"omitempty,gte=0"`
	MaxDiscountAmount *float64 `json:"max_discount_amount,omitempty" validate:"omitempty,gt=0"`
	UsageLimit        *int64   `json:"usage_limit,omitempty" validate:"omitempty,gt=0"`
	ValidFrom         *string  `json:"valid_from,omitempty"`
	ValidUntil        *string  `json:"valid_until,omitempty"`
	IsActive          *bool    `json:"is_active,omitempty"`
}
