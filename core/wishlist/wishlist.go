// Package wishlist proxies the logged-in user's wishlist, including the
// backend's single toggle endpoint that adds or removes in one call.
package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/core/catalog"
)

type Entry struct {
	ID             int64            `json:"id"`
	User           int64            `json:"user"`
	Product        int64            `json:"product"`
	ProductDetails *catalog.Product `json:"product_details,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Toggle is the backend's answer: whether the product ended up added or
// removed, and the entry when it was added.
type Toggle struct {
	Action   string `json:"action"`
	Message  string `json:"message"`
	Wishlist *Entry `json:"wishlist,omitempty"`
}

type Client struct {
	bk *backend.Client
}

func NewClient(bk *backend.Client) *Client {
	return &Client{bk: bk}
}

func (c *Client) List(ctx context.Context) (catalog.Page[Entry], error) {
	var page catalog.Page[Entry]
	if err := c.bk.Get(ctx, "/wishlist/", &page); err != nil {
		return catalog.Page[Entry]{}, fmt.Errorf("listing wishlist: %w", err)
	}
	return page, nil
}

func (c *Client) Toggle(ctx context.Context, productID int64) (Toggle, error) {
	in := struct {
		ProductID int64 `json:"product_id"`
	}{ProductID: productID}

	var t Toggle
	if err := c.bk.Post(ctx, "/wishlist/toggle/", in, &t); err != nil {
		return Toggle{}, fmt.Errorf("toggling product[%d] on wishlist: %w", productID, err)
	}
	return t, nil
}
