package cep

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/api/weberr"
)

type view struct {
	Address  Address `json:"address"`
	Shipping *Quote  `json:"shipping,omitempty"`
}

// HandleLookup resolves a postal code; with a subtotal query parameter it
// also quotes shipping, so checkout prefills both in one call.
func HandleLookup(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		code := web.Param(r, "code")

		addr, err := c.Lookup(ctx, code)
		switch err {
		case nil:
		case ErrInvalidCode:
			return weberr.BadRequest(err)
		case ErrNotFound:
			return weberr.NotFound(err)
		default:
			return err
		}

		v := view{Address: addr}
		if s := web.QueryParam(r, "subtotal"); s != "" {
			subtotal, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return weberr.BadRequest(err)
			}
			q, err := Shipping(code, subtotal)
			if err != nil {
				return weberr.BadRequest(err)
			}
			v.Shipping = &q
		}

		return web.Respond(ctx, w, v, http.StatusOK)
	}
}
