package cart

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/api/weberr"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/core/auth"
	"github.com/pbrandao/varejo/core/catalog"
	"github.com/pbrandao/varejo/validate"
)

// view is what the storefront renders: the lines plus the derived total.
type view struct {
	Items []Item  `json:"items"`
	Total float64 `json:"total"`
}

// ForSession resolves the session's cart, minting a cart id on first use.
// Checkout and coupon validation reach the cart through it too.
func ForSession(ctx context.Context, session *scs.SessionManager, stores *Stores) *Store {
	id := auth.CartID(ctx, session, validate.GenerateCartID)
	return stores.Get(id)
}

func HandleShow(session *scs.SessionManager, stores *Stores) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s := ForSession(ctx, session, stores)

		return web.Respond(ctx, w, view{Items: s.Items(ctx), Total: s.Total(ctx)}, http.StatusOK)
	}
}

type itemAdd struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	VariantID *int64 `json:"variantId"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

func HandleAddItem(session *scs.SessionManager, stores *Stores, cat *catalog.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in itemAdd
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		// The snapshot captured here is what freezes display data and
		// price for the rest of the line's life.
		product, err := cat.Fetch(ctx, in.ProductID)
		if err != nil {
			return backend.WebError(err)
		}

		s := ForSession(ctx, session, stores)
		s.Add(ctx, ItemNew{
			ProductID: in.ProductID,
			VariantID: in.VariantID,
			Quantity:  in.Quantity,
			Product:   product,
		})

		return web.Respond(ctx, w, view{Items: s.Items(ctx), Total: s.Total(ctx)}, http.StatusOK)
	}
}

type itemUpdate struct {
	VariantID *int64 `json:"variantId"`
	Quantity  int64  `json:"quantity"`
}

func HandleUpdateItem(session *scs.SessionManager, stores *Stores) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID, err := web.IntParam(r, "product_id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var in itemUpdate
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		s := ForSession(ctx, session, stores)
		s.UpdateQuantity(ctx, productID, in.VariantID, in.Quantity)

		return web.Respond(ctx, w, view{Items: s.Items(ctx), Total: s.Total(ctx)}, http.StatusOK)
	}
}

func HandleRemoveItem(session *scs.SessionManager, stores *Stores) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID, err := web.IntParam(r, "product_id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var variantID *int64
		if v := web.QueryParam(r, "variant"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return weberr.BadRequest(fmt.Errorf("variant query parameter is not a valid id"))
			}
			variantID = &id
		}

		s := ForSession(ctx, session, stores)
		s.Remove(ctx, productID, variantID)

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleClear(session *scs.SessionManager, stores *Stores) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s := ForSession(ctx, session, stores)
		s.Clear(ctx)

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
