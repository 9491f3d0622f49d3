// Package review proxies product reviews: listing per product and
// submitting one as the logged-in customer.
package review

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/core/catalog"
)

type Review struct {
	ID                 int64     `json:"id"`
	Product            int64     `json:"product"`
	User               int64     `json:"user"`
	UserName           string    `json:"user_name"`
	UserFirstName      string    `json:"user_first_name"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title"`
	Comment            string    `json:"comment"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	IsApproved         bool      `json:"is_approved"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ReviewNew struct {
	Product int64  `json:"product" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type Client struct {
	bk *backend.Client
}

func NewClient(bk *backend.Client) *Client {
	return &Client{bk: bk}
}

func (c *Client) ListByProduct(ctx context.Context, productID int64) (catalog.Page[Review], error) {
	q := url.Values{"product": []string{fmt.Sprintf("%d", productID)}}

	var page catalog.Page[Review]
	if err := c.bk.Get(ctx, "/reviews/?"+q.Encode(), &page); err != nil {
		return catalog.Page[Review]{}, fmt.Errorf("listing reviews of product[%d]: %w", productID, err)
	}
	return page, nil
}

func (c *Client) Create(ctx context.Context, nr ReviewNew) (Review, error) {
	var rv Review
	if err := c.bk.Post(ctx, "/reviews/", nr, &rv); err != nil {
		return Review{}, fmt.Errorf("creating review on product[%d]: %w", nr.Product, err)
	}
	return rv, nil
}
