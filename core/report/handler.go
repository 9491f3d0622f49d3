package report

import (
	"context"
	"net/http"

	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/backend"
)

func HandleSales(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		sum, err := c.Sales(ctx)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, sum, http.StatusOK)
	}
}
