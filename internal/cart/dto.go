package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartlyhq/cartly-backend/pkg/enums"
)

// AddItemInput carries a cart add request after validation.
type AddItemInput struct {
	ProductID             uuid.UUID
	Quantity              int
	Type                  enums.CartLineType
	RequestedPricePerUnit *decimal.Decimal
	BulkMinQuantity       *int
}

// LineDTO is one cart line joined with its product.
type LineDTO struct {
	ID                    uuid.UUID          `json:"id"`
	ProductID             uuid.UUID          `json:"product_id"`
	ProductTitle          string             `json:"product_title"`
	ProductSKU            string             `json:"product_sku"`
	UnitPrice             decimal.Decimal    `json:"unit_price"`
	Currency              string             `json:"currency"`
	Quantity              int                `json:"quantity"`
	LineTotal             decimal.Decimal    `json:"line_total"`
	Type                  enums.CartLineType `json:"type"`
	RequestedPricePerUnit *decimal.Decimal   `json:"requested_price_per_unit,omitempty"`
	OfferedPricePerUnit   *decimal.Decimal   `json:"offered_price_per_unit,omitempty"`
	BulkMinQuantity       *int               `json:"bulk_min_quantity,omitempty"`
	CategoryName          *string            `json:"category,omitempty"`
	BrandName             *string            `json:"brand,omitempty"`
	ImageURL              *string            `json:"product_img_url,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
}

// SummaryDTO aggregates the active cart.
type SummaryDTO struct {
	Items       []LineDTO       `json:"items"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}
