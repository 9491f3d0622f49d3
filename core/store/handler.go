package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/api/weberr"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/validate"
)

func HandleMine(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		p, err := c.Mine(ctx)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleCreate(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var np ProfileNew
		if err := web.Decode(w, r, &np); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(np); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		p, err := c.Create(ctx, np)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, p, http.StatusCreated)
	}
}

// HandleUpdate patches the seller's own store; the store id comes from
// the backend, never from the request.
func HandleUpdate(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var up ProfileUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		mine, err := c.Mine(ctx)
		if err != nil {
			return backend.WebError(err)
		}

		p, err := c.Update(ctx, mine.ID, up)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}
