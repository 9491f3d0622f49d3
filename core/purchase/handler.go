package purchase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/api/weberr"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/core/store"
	"github.com/pbrandao/varejo/validate"
)

// Every purchasing operation is scoped to the seller's own store,
// resolved from the backend rather than trusted from the request.
func ownStore(ctx context.Context, stores *store.Client) (int64, error) {
	p, err := stores.Mine(ctx)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func HandleListSuppliers(c *Client, stores *store.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		storeID, err := ownStore(ctx, stores)
		if err != nil {
			return backend.WebError(err)
		}

		list, err := c.Suppliers(ctx, storeID)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, list, http.StatusOK)
	}
}

func HandleCreateSupplier(c *Client, stores *store.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var ns SupplierNew
		if err := web.Decode(w, r, &ns); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(ns); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		storeID, err := ownStore(ctx, stores)
		if err != nil {
			return backend.WebError(err)
		}
		ns.Store = storeID

		s, err := c.CreateSupplier(ctx, ns)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, s, http.StatusCreated)
	}
}

func HandleListOrders(c *Client, stores *store.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		storeID, err := ownStore(ctx, stores)
		if err != nil {
			return backend.WebError(err)
		}

		list, err := c.Orders(ctx, storeID)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, list, http.StatusOK)
	}
}

func HandleShowOrder(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		o, err := c.Order(ctx, id)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, o, http.StatusOK)
	}
}

func HandleCreateOrder(c *Client, stores *store.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var no OrderNew
		if err := web.Decode(w, r, &no); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(no); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		storeID, err := ownStore(ctx, stores)
		if err != nil {
			return backend.WebError(err)
		}
		no.Store = storeID

		o, err := c.CreateOrder(ctx, no)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, o, http.StatusCreated)
	}
}

type receiveInput struct {
	Items []Receipt `json:"items" validate:"required,min=1,dive"`
}

func HandleReceiveOrder(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var in receiveInput
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		o, err := c.Receive(ctx, id, in.Items)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, o, http.StatusOK)
	}
}
