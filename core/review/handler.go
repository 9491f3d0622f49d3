package review

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
		productID, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		page, err := c.ListByProduct(ctx, productID)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, page, http.StatusOK)
	}
}

type reviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

func HandleCreate(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var in reviewInput
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		rv, err := c.Create(ctx, ReviewNew{
			Product: productID,
			Rating:  in.Rating,
			Title:   in.Title,
			Comment: in.Comment,
		})
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, rv, http.StatusCreated)
	}
}
