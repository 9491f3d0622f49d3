// Package cep resolves Brazilian postal codes through the public ViaCEP
// API and quotes flat-rate shipping by region.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBase = "https://viacep.com.br/ws"

var (
	ErrInvalidCode = errors.New("postal code must have 8 digits")
	ErrNotFound    = errors.New("postal code not found")
)

type Address struct {
	Code       string `json:"cep"`
	Street     string `json:"logradouro"`
	Complement string `json:"complemento"`
	District   string `json:"bairro"`
	City       string `json:"localidade"`
	State      string `json:"uf"`
	Missing    bool   `json:"erro,omitempty"`
}

// Quote is a shipping estimate for one postal code and order subtotal.
type Quote struct {
	Value float64 `json:"value"`
	Days  int     `json:"days"`
	Kind  string  `json:"kind"`
}

type Client struct {
	base string
	hc   *http.Client
}

func NewClient() *Client {
	return &Client{
		base: defaultBase,
		hc:   &http.Client{Timeout: 5 * time.Second},
	}
}

// NewClientWith points the lookups at another base URL, for tests.
func NewClientWith(base string, hc *http.Client) *Client {
	return &Client{base: base, hc: hc}
}

// Lookup fetches the address behind a postal code. Punctuation in the
// code is tolerated, 01310-100 and 01310100 are the same code.
func (c *Client) Lookup(ctx context.Context, code string) (Address, error) {
	clean := digits(code)
	if len(clean) != 8 {
		return Address{}, ErrInvalidCode
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.base, clean), nil)
	if err != nil {
		return Address{}, fmt.Errorf("building viacep request: %w", err)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("calling viacep: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Address{}, fmt.Errorf("viacep answered status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Address{}, fmt.Errorf("reading viacep response: %w", err)
	}

	var addr Address
	if err := json.Unmarshal(body, &addr); err != nil {
		return Address{}, fmt.Errorf("unmarshaling viacep response: %w", err)
	}
	if addr.Missing {
		return Address{}, ErrNotFound
	}

	return addr, nil
}

// Shipping quotes a flat PAC rate by the code's leading region digit.
// Orders over the free-shipping floor ship for nothing.
func Shipping(code string, subtotal float64) (Quote, error) {
	clean := digits(code)
	if len(clean) != 8 {
		return Quote{}, ErrInvalidCode
	}

	if subtotal >= 200 {
		return Quote{Value: 0, Days: 5, Kind: "Frete Grátis"}, nil
	}

	switch region := clean[0]; {
	case region <= '3':
		return Quote{Value: 15, Days: 5, Kind: "PAC"}, nil
	case region <= '5':
		return Quote{Value: 25, Days: 7, Kind: "PAC"}, nil
	default:
		return Quote{Value: 35, Days: 10, Kind: "PAC"}, nil
	}
}

// Format renders a code as 00000-000.
func Format(code string) string {
	clean := digits(code)
	if len(clean) != 8 {
		return code
	}
	return clean[:5] + "-" + clean[5:]
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
