// Package report computes the seller's sales summary out of the order
// history: the backend has no aggregation endpoint, so the numbers are
// derived here from the fetched orders.
package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/pbrandao/varejo/core/order"
)

// maxPages bounds how much history one report request may pull.
const maxPages = 50

type Summary struct {
	Orders  int        `json:"orders"`
	Revenue float64    `json:"revenue"`
	Units   int64      `json:"units"`
	BySKU   []SKUSales `json:"bySku"`
}

type SKUSales struct {
	SKU     string  `json:"sku"`
	Units   int64   `json:"units"`
	Revenue float64 `json:"revenue"`
}

type Client struct {
	orders *order.Client
}

func NewClient(orders *order.Client) *Client {
	return &Client{orders: orders}
}

// Sales walks the seller's order history and folds it into totals per
// SKU. Cancelled orders don't count.
func (c *Client) Sales(ctx context.Context) (Summary, error) {
	var sum Summary
	bySKU := make(map[string]*SKUSales)

	for page := 1; page <= maxPages; page++ {
		p, err := c.orders.ListPage(ctx, page)
		if err != nil {
			return Summary{}, fmt.Errorf("fetching order history: %w", err)
		}

		for _, o := range p.Results {
			if o.Status == "cancelled" {
				continue
			}

			sum.Orders++
			sum.Revenue += o.TotalAmount

			for _, it := range o.Items {
				sum.Units += it.Quantity

				sku := "unknown"
				if it.VariantDetails != nil {
					sku = it.VariantDetails.SKU
				}
				s, ok := bySKU[sku]
				if !ok {
					s = &SKUSales{SKU: sku}
					bySKU[sku] = s
				}
				s.Units += it.Quantity
				s.Revenue += it.Subtotal
			}
		}

		if p.Next == nil {
			break
		}
	}

	sum.BySKU = make([]SKUSales, 0, len(bySKU))
	for _, s := range bySKU {
		sum.BySKU = append(sum.BySKU, *s)
	}
	sort.Slice(sum.BySKU, func(i, j int) bool {
		return sum.BySKU[i].Revenue > sum.BySKU[j].Revenue
	})

	return sum, nil
}
