package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pbrandao/varejo/backend"
)

// Page is the backend's list envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type Filters struct {
	Search   string
	Category string
	Store    int64
	Page     int
}

func (f Filters) encode() string {
	q := make(url.Values)
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Store > 0 {
		q.Set("store", fmt.Sprintf("%d", f.Store))
	}
	if f.Page > 1 {
		q.Set("page", fmt.Sprintf("%d", f.Page))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

type Client struct {
	bk *backend.Client
}

func NewClient(bk *backend.Client) *Client {
	return &Client{bk: bk}
}

func (c *Client) List(ctx context.Context, f Filters) (Page[Product], error) {
	var page Page[Product]
	if err := c.bk.Get(ctx, "/products/"+f.encode(), &page); err != nil {
		return Page[Product]{}, fmt.Errorf("listing products: %w", err)
	}
	return page, nil
}

func (c *Client) Fetch(ctx context.Context, productID int64) (Product, error) {
	var p Product
	if err := c.bk.Get(ctx, fmt.Sprintf("/products/%d/", productID), &p); err != nil {
		return Product{}, fmt.Errorf("fetching product[%d]: %w", productID, err)
	}
	return p, nil
}

func (c *Client) Create(ctx context.Context, np ProductNew) (Product, error) {
	var p Product
	if err := c.bk.Post(ctx, "/products/", np, &p); err != nil {
		return Product{}, fmt.Errorf("creating product: %w", err)
	}
	return p, nil
}

func (c *Client) Update(ctx context.Context, productID int64, up ProductUp) (Product, error) {
	var p Product
	if err := c.bk.Patch(ctx, fmt.Sprintf("/products/%d/", productID), up, &p); err != nil {
		return Product{}, fmt.Errorf("updating product[%d]: %w", productID, err)
	}
	return p, nil
}

func (c *Client) Delete(ctx context.Context, productID int64) error {
	if err := c.bk.Delete(ctx, fmt.Sprintf("/products/%d/", productID)); err != nil {
		return fmt.Errorf("deleting product[%d]: %w", productID, err)
	}
	return nil
}

func (c *Client) Options(ctx context.Context, productID int64) (Options, error) {
	var opts Options
	if err := c.bk.Get(ctx, fmt.Sprintf("/products/%d/options/", productID), &opts); err != nil {
		return Options{}, fmt.Errorf("fetching options of product[%d]: %w", productID, err)
	}
	return opts, nil
}

func (c *Client) Variants(ctx context.Context, productID int64) ([]Variant, error) {
	var page Page[Variant]
	if err := c.bk.Get(ctx, fmt.Sprintf("/products/%d/variants/", productID), &page); err != nil {
		return nil, fmt.Errorf("listing variants of product[%d]: %w", productID, err)
	}
	return page.Results, nil
}

func (c *Client) CreateVariant(ctx context.Context, productID int64, nv VariantNew) (Variant, error) {
	var v Variant
	if err := c.bk.Post(ctx, fmt.Sprintf("/products/%d/variants/", productID), nv, &v); err != nil {
		return Variant{}, fmt.Errorf("creating variant on product[%d]: %w", productID, err)
	}
	return v, nil
}

func (c *Client) UpdateVariant(ctx context.Context, productID, variantID int64, uv VariantUp) (Variant, error) {
	var v Variant
	if err := c.bk.Patch(ctx, fmt.Sprintf("/products/%d/variants/%d/", productID, variantID), uv, &v); err != nil {
		return Variant{}, fmt.Errorf("updating variant[%d] on product[%d]: %w", variantID, productID, err)
	}
	return v, nil
}

func (c *Client) DeleteVariant(ctx context.Context, productID, variantID int64) error {
	if err := c.bk.Delete(ctx, fmt.Sprintf("/products/%d/variants/%d/", productID, variantID)); err != nil {
		return fmt.Errorf("deleting variant[%d] on product[%d]: %w", variantID, productID, err)
	}
	return nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var page Page[Category]
	if err := c.bk.Get(ctx, "/categories/", &page); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return page.Results, nil
}

func (c *Client) CategoryProducts(ctx context.Context, slug string) ([]Product, error) {
	var products []Product
	if err := c.bk.Get(ctx, fmt.Sprintf("/categories/%s/products/", url.PathEscape(slug)), &products); err != nil {
		return nil, fmt.Errorf("listing products of category[%s]: %w", slug, err)
	}
	return products, nil
}
