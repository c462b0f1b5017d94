package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListFilter narrows the catalog listing.
type ListFilter struct {
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	Search     string
}

// ProductSummary is the catalog view of a product joined with its category
// and brand names.
type ProductSummary struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	StockQuantity int             `json:"stock_quantity"`
	Currency      string          `json:"currency"`
	CategoryName  *string         `json:"category,omitempty"`
	BrandName     *string         `json:"brand,omitempty"`
	ImageURL      *string         `json:"product_img_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
