package order

import (
	"context"
	"fmt"

	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/core/catalog"
)

type Client struct {
	bk *backend.Client
}

func NewClient(bk *backend.Client) *Client {
	return &Client{bk: bk}
}

func (c *Client) List(ctx context.Context) (catalog.Page[Order], error) {
	var page catalog.Page[Order]
	if err := c.bk.Get(ctx, "/orders/", &page); err != nil {
		return catalog.Page[Order]{}, fmt.Errorf("listing orders: %w", err)
	}
	return page, nil
}

func (c *Client) ListPage(ctx context.Context, page int) (catalog.Page[Order], error) {
	var p catalog.Page[Order]
	if err := c.bk.Get(ctx, fmt.Sprintf("/orders/?page=%d", page), &p); err != nil {
		return catalog.Page[Order]{}, fmt.Errorf("listing orders page %d: %w", page, err)
	}
	return p, nil
}

func (c *Client) Fetch(ctx context.Context, orderID int64) (Order, error) {
	var o Order
	if err := c.bk.Get(ctx, fmt.Sprintf("/orders/%d/", orderID), &o); err != nil {
		return Order{}, fmt.Errorf("fetching order[%d]: %w", orderID, err)
	}
	return o, nil
}

func (c *Client) create(ctx context.Context, no orderNew) (Order, error) {
	var o Order
	if err := c.bk.Post(ctx, "/orders/", no, &o); err != nil {
		return Order{}, fmt.Errorf("creating order: %w", err)
	}
	return o, nil
}

func (c *Client) SetStatus(ctx context.Context, orderID int64, status string) (Order, error) {
	in := struct {
		Status string `json:"status"`
	}{Status: status}

	var o Order
	if err := c.bk.Post(ctx, fmt.Sprintf("/orders/%d/update_status/", orderID), in, &o); err != nil {
		return Order{}, fmt.Errorf("updating status of order[%d]: %w", orderID, err)
	}
	return o, nil
}

// MarkCODPaid settles a cash-on-delivery order; the backend rejects it
// for any other payment method.
func (c *Client) MarkCODPaid(ctx context.Context, orderID int64) (Order, error) {
	var o Order
	if err := c.bk.Post(ctx, fmt.Sprintf("/orders/%d/mark_cod_paid/", orderID), nil, &o); err != nil {
		return Order{}, fmt.Errorf("marking order[%d] as paid: %w", orderID, err)
	}
	return o, nil
}
