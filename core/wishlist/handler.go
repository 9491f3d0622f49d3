package wishlist

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/api/weberr"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/validate"
)

func HandleList(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		page, err := c.List(ctx)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, page, http.StatusOK)
	}
}

type toggleInput struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

func HandleToggle(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in toggleInput
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		t, err := c.Toggle(ctx, in.ProductID)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, t, http.StatusOK)
	}
}
