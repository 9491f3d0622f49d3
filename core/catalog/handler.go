package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/api/weberr"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/validate"
)

func HandleList(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		f := Filters{
			Search:   web.QueryParam(r, "search"),
			Category: web.QueryParam(r, "category"),
		}
		if s := web.QueryParam(r, "store"); s != "" {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return weberr.BadRequest(fmt.Errorf("store filter is not a valid id"))
			}
			f.Store = id
		}
		if p := web.QueryParam(r, "page"); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil {
				return weberr.BadRequest(fmt.Errorf("page is not a number"))
			}
			f.Page = n
		}

		page, err := c.List(ctx, f)
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

		p, err := c.Fetch(ctx, id)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleCreate(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var np ProductNew
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

func HandleUpdate(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var up ProductUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		p, err := c.Update(ctx, id, up)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
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

func HandleOptions(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		opts, err := c.Options(ctx, id)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, opts, http.StatusOK)
	}
}

func HandleListVariants(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "product_id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		variants, err := c.Variants(ctx, id)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, variants, http.StatusOK)
	}
}

func HandleCreateVariant(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "product_id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var nv VariantNew
		if err := web.Decode(w, r, &nv); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(nv); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		v, err := c.CreateVariant(ctx, id, nv)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, v, http.StatusCreated)
	}
}

func HandleUpdateVariant(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID, err := web.IntParam(r, "product_id")
		if err != nil {
			return weberr.BadRequest(err)
		}
		variantID, err := web.IntParam(r, "variant_id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var uv VariantUp
		if err := web.Decode(w, r, &uv); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(uv); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		v, err := c.UpdateVariant(ctx, productID, variantID, uv)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, v, http.StatusOK)
	}
}

func HandleDeleteVariant(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID, err := web.IntParam(r, "product_id")
		if err != nil {
			return weberr.BadRequest(err)
		}
		variantID, err := web.IntParam(r, "variant_id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		if err := c.DeleteVariant(ctx, productID, variantID); err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleListCategories(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cats, err := c.Categories(ctx)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, cats, http.StatusOK)
	}
}

func HandleCategoryProducts(c *Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		slug := web.Param(r, "slug")

		products, err := c.CategoryProducts(ctx, slug)
		if err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, products, http.StatusOK)
	}
}
