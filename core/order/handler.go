package order

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/api/weberr"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/core/cart"
	"github.com/pbrandao/varejo/core/coupon"
	"github.com/pbrandao/varejo/validate"
)

type CheckoutInput struct {
	CustomerName    string `json:"customerName" validate:"required"`
	CustomerEmail   string `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string `json:"customerPhone"`
	ShippingAddress string `json:"shippingAddress" validate:"required"`
	PaymentMethod   string `json:"paymentMethod" validate:"omitempty,oneof=online cod"`
	CouponCode      string `json:"couponCode"`
}

// HandleCheckout turns the session cart into a backend order. The cart is
// the only source of line items, a coupon code is validated against the
// cart total before the order is placed, and the cart empties only after
// the backend accepts.
func HandleCheckout(c *Client, coupons *coupon.Client, session *scs.SessionManager, stores *cart.Stores) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in CheckoutInput
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		s := cart.ForSession(ctx, session, stores)
		items := s.Items(ctx)
		if len(items) == 0 {
			return weberr.NewError(fmt.Errorf("checkout on empty cart"), "the cart is empty", http.StatusUnprocessableEntity)
		}

		if in.CouponCode != "" {
			v, err := coupons.Validate(ctx, in.CouponCode, s.Total(ctx))
			if err != nil {
				return backend.WebError(err)
			}
			if !v.Valid {
				return weberr.NewError(fmt.Errorf("coupon %q rejected", in.CouponCode), v.Coupon.ValidMessage, http.StatusUnprocessableEntity)
			}
		}

		method := in.PaymentMethod
		if method == "" {
			method = "online"
		}

		no := orderNew{
			CustomerName:    in.CustomerName,
			CustomerEmail:   in.CustomerEmail,
			CustomerPhone:   in.CustomerPhone,
			ShippingAddress: in.ShippingAddress,
			Status:          "pending",
			PaymentMethod:   method,
			CouponCode:      in.CouponCode,
			Items:           make([]itemNew, 0, len(items)),
		}
		for _, it := range items {
			no.Items = append(no.Items, itemNew{
				Product:  it.ProductID,
				Variant:  it.VariantID,
				Quantity: it.Quantity,
			})
		}

		o, err := c.create(ctx, no)
		if err != nil {
			return backend.WebError(err)
		}

		s.Clear(ctx)

		return web.Respond(ctx, w, o, http.StatusCreated)
	}
}

func HandleList(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		page, err := c.List(ctx)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, page, http.StatusOK)
	}
}

func HandleShow(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		o, err := c.Fetch(ctx, id)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, o, http.StatusOK)
	}
}

type statusInput struct {
	Status string `json:"status" validate:"required,oneof=pending processing awaiting_delivery out_for_delivery shipped delivered cancelled"`
}

func HandleSetStatus(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var in statusInput
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		o, err := c.SetStatus(ctx, id, in.Status)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, o, http.StatusOK)
	}
}

func HandleMarkCODPaid(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		o, err := c.MarkCODPaid(ctx, id)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, o, http.StatusOK)
	}
}
