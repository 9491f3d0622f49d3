package coupon

import (
	"context"
	"fmt"

	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/core/catalog"
)

type Client struct {
	bk *backend.Client
}

func NewClient(bk *backend.Client) *Client {
	return &Client{bk: bk}
}

func (c *Client) List(ctx context.Context) (catalog.Page[Coupon], error) {
	var page catalog.Page[Coupon]
	if err := c.bk.Get(ctx, "/coupons/", &page); err != nil {
		return catalog.Page[Coupon]{}, fmt.Errorf("listing coupons: %w", err)
	}
	return page, nil
}

func (c *Client) Fetch(ctx context.Context, couponID int64) (Coupon, error) {
	var cp Coupon
	if err := c.bk.Get(ctx, fmt.Sprintf("/coupons/%d/", couponID), &cp); err != nil {
		return Coupon{}, fmt.Errorf("fetching coupon[%d]: %w", couponID, err)
	}
	return cp, nil
}

// Validate checks a code against an order total. The backend answers the
// final say on validity windows, usage limits and minimum purchase.
func (c *Client) Validate(ctx context.Context, code string, total float64) (Validation, error) {
	in := struct {
		Code  string  `json:"code"`
		Total float64 `json:"total"`
	}{Code: code, Total: total}

	var v Validation
	if err := c.bk.Post(ctx, "/coupons/validate_coupon/", in, &v); err != nil {
		return Validation{}, fmt.Errorf("validating coupon %q: %w", code, err)
	}
	return v, nil
}

func (c *Client) Create(ctx context.Context, nc CouponNew) (Coupon, error) {
	var cp Coupon
	if err := c.bk.Post(ctx, "/coupons/", nc, &cp); err != nil {
		return Coupon{}, fmt.Errorf("creating coupon: %w", err)
	}
	return cp, nil
}

func (c *Client) Update(ctx context.Context, couponID int64, uc CouponUp) (Coupon, error) {
	var cp Coupon
	if err := c.bk.Patch(ctx, fmt.Sprintf("/coupons/%d/", couponID), uc, &cp); err != nil {
		return Coupon{}, fmt.Errorf("updating coupon[%d]: %w", couponID, err)
	}
	return cp, nil
}

func (c *Client) Delete(ctx context.Context, couponID int64) error {
	if err := c.bk.Delete(ctx, fmt.Sprintf("/coupons/%d/", couponID)); err != nil {
		return fmt.Errorf("deleting coupon[%d]: %w", couponID, err)
	}
	return nil
}
