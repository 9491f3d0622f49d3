// Package store manages the seller's store profile on the commerce
// backend. Every seller owns at most one store.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pbrandao/varejo/backend"
)

type Profile struct {
	ID            int64     `json:"id"`
	Owner         int64     `json:"owner"`
	OwnerUsername string    `json:"owner_username"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ProfileNew struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Address     string `json:"address,omitempty"`
}

type ProfileUp struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type Client struct {
	bk *backend.Client
}

func NewClient(bk *backend.Client) *Client {
	return &Client{bk: bk}
}

// Mine fetches the store owned by the logged-in seller.
func (c *Client) Mine(ctx context.Context) (Profile, error) {
	var p Profile
	if err := c.bk.Get(ctx, "/stores/my_store/", &p); err != nil {
		return Profile{}, fmt.Errorf("fetching own store: %w", err)
	}
	return p, nil
}

func (c *Client) Create(ctx context.Context, np ProfileNew) (Profile, error) {
	var p Profile
	if err := c.bk.Post(ctx, "/stores/", np, &p); err != nil {
		return Profile{}, fmt.Errorf("creating store: %w", err)
	}
	return p, nil
}

func (c *Client) Update(ctx context.Context, storeID int64, up ProfileUp) (Profile, error) {
	var p Profile
	if err := c.bk.Patch(ctx, fmt.Sprintf("/stores/%d/", storeID), up, &p); err != nil {
		return Profile{}, fmt.Errorf("updating store[%d]: %w", storeID, err)
	}
	return p, nil
}
