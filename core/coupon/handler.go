package coupon

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/api/weberr"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/core/cart"
	"github.com/pbrandao/varejo/validate"
)

type validateInput struct {
	Code string `json:"code" validate:"required"`
}

// HandleValidate checks a coupon code against the session cart's total,
// so the client never supplies the amount being discounted.
func HandleValidate(c *Client, session *scs.SessionManager, stores *cart.Stores) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in validateInput
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		total := cart.ForSession(ctx, session, stores).Total(ctx)

		v, err := c.Validate(ctx, in.Code, total)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, v, http.StatusOK)
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

func HandleCreate(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var nc CouponNew
		if err := web.Decode(w, r, &nc); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(nc); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		cp, err := c.Create(ctx, nc)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, cp, http.StatusCreated)
	}
}

func HandleUpdate(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var uc CouponUp
		if err := web.Decode(w, r, &uc); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(uc); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		cp, err := c.Update(ctx, id, uc)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, cp, http.StatusOK)
	}
}

func HandleDelete(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		if err := c.Delete(ctx, id); err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
