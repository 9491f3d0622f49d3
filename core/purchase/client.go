package purchase

import (
	"context"
	"fmt"

	"github.com/pbrandao/varejo/backend"
)

type Client struct {
	bk *backend.Client
}

func NewClient(bk *backend.Client) *Client {
	return &Client{bk: bk}
}

func (c *Client) Suppliers(ctx context.Context, storeID int64) ([]Supplier, error) {
	var list []Supplier
	if err := c.bk.Get(ctx, fmt.Sprintf("/suppliers/?store=%d", storeID), &list); err != nil {
		return nil, fmt.Errorf("listing suppliers of store[%d]: %w", storeID, err)
	}
	return list, nil
}

func (c *Client) CreateSupplier(ctx context.Context, ns SupplierNew) (Supplier, error) {
	var s Supplier
	if err := c.bk.Post(ctx, "/suppliers/", ns, &s); err != nil {
		return Supplier{}, fmt.Errorf("creating supplier: %w", err)
	}
	return s, nil
}

func (c *Client) Orders(ctx context.Context, storeID int64) ([]Order, error) {
	var list []Order
	if err := c.bk.Get(ctx, fmt.Sprintf("/purchase-orders/?store=%d", storeID), &list); err != nil {
		return nil, fmt.Errorf("listing purchase orders of store[%d]: %w", storeID, err)
	}
	return list, nil
}

func (c *Client) Order(ctx context.Context, orderID int64) (Order, error) {
	var o Order
	if err := c.bk.Get(ctx, fmt.Sprintf("/purchase-orders/%d/", orderID), &o); err != nil {
		return Order{}, fmt.Errorf("fetching purchase order[%d]: %w", orderID, err)
	}
	return o, nil
}

func (c *Client) CreateOrder(ctx context.Context, no OrderNew) (Order, error) {
	var o Order
	if err := c.bk.Post(ctx, "/purchase-orders/", no, &o); err != nil {
		return Order{}, fmt.Errorf("creating purchase order: %w", err)
	}
	return o, nil
}

// Receive posts the received quantities for the given lines; the backend
// moves stock and flips the order to RECEIVED_PARTIAL or RECEIVED_FULL.
func (c *Client) Receive(ctx context.Context, orderID int64, receipts []Receipt) (Order, error) {
	in := struct {
		Items []Receipt `json:"items"`
	}{Items: receipts}

	var o Order
	if err := c.bk.Post(ctx, fmt.Sprintf("/purchase-orders/%d/receive_items/", orderID), in, &o); err != nil {
		return Order{}, fmt.Errorf("receiving items of purchase order[%d]: %w", orderID, err)
	}
	return o, nil
}
