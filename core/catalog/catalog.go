// Package catalog models the sellable goods of a store: products, their
// purchasable variants and the category tree. The data lives in the
// commerce backend; this package holds the shapes and the typed client
// the rest of the gateway works with.
package catalog

import "time"

type Category struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug,omitempty"`
	Description  string     `json:"description,omitempty"`
	Image        *string    `json:"image,omitempty"`
	Parent       *int64     `json:"parent,omitempty"`
	IsActive     bool       `json:"is_active,omitempty"`
	Children     []Category `json:"children,omitempty"`
	ProductCount int        `json:"product_count,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// Variant is one purchasable variation of a product. Price and stock live
// here for products that declare variants; Product points back via the
// Product field (a reference, not ownership).
type Variant struct {
	ID        int64      `json:"id"`
	Product   int64      `json:"product"`
	Name      string     `json:"name,omitempty"`
	SKU       string     `json:"sku,omitempty"`
	Price     float64    `json:"price"`
	Stock     *int64     `json:"stock,omitempty"`
	Size      string     `json:"size,omitempty"`
	Color     string     `json:"color,omitempty"`
	Model     string     `json:"model,omitempty"`
	Image     *string    `json:"image,omitempty"`
	IsActive  bool       `json:"is_active,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Product may price and stock itself (a "simple" product) or delegate both
// to its variants; Price and Stock are nil in the latter case.
type Product struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name,omitempty"`
	Description   string     `json:"description,omitempty"`
	Image         *string    `json:"image,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	Stock         *int64     `json:"stock,omitempty"`
	SKU           string     `json:"sku,omitempty"`
	Store         int64      `json:"store,omitempty"`
	StoreName     string     `json:"store_name,omitempty"`
	SellerName    string     `json:"seller_name,omitempty"`
	AverageRating float64    `json:"average_rating,omitempty"`
	ReviewCount   int        `json:"review_count,omitempty"`
	IsActive      bool       `json:"is_active,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	Variants      []Variant  `json:"variants,omitempty"`
}

// FindVariant resolves a variant id against the product's declared
// variants. A nil result means the reference is invalid.
func (p *Product) FindVariant(variantID int64) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

type ProductNew struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int64   `json:"stock,omitempty" validate:"omitempty,gte=0"`
	SKU         string   `json:"sku,omitempty"`
	Category    *int64   `json:"category,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type ProductUp struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int64   `json:"stock,omitempty" validate:"omitempty,gte=0"`
	SKU         *string  `json:"sku,omitempty"`
	Category    *int64   `json:"category,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type VariantNew struct {
	SKU      string  `json:"sku,omitempty"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Stock    int64   `json:"stock" validate:"gte=0"`
	Size     string  `json:"size" validate:"required"`
	Color    string  `json:"color" validate:"required"`
	Model    string  `json:"model,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type VariantUp struct {
	SKU      *string  `json:"sku,omitempty"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Stock    *int64   `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Size     *string  `json:"size,omitempty"`
	Color    *string  `json:"color,omitempty"`
	Model    *string  `json:"model,omitempty"`
	IsActive *bool    `json:"is_active,omitempty"`
}

// Options lists the attribute values a storefront may offer when creating
// variants, as served by the backend's product options action.
type Options struct {
	Colors []string `json:"colors"`
	Sizes  []string `json:"sizes"`
}
