package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartlyhq/cartly-backend/pkg/enums"
)

// OrderItem snapshots the product at checkout time so later catalog edits
// never rewrite history. Bulk lines carry the negotiated per-unit prices.
type OrderItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`

	ProductName string `gorm:"column:product_name;not null"`
	ProductSKU  string `gorm:"column:product_sku;not null"`

	Quantity   int             `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null"`

	RequestedPricePerUnit *decimal.Decimal `gorm:"column:requested_price_per_unit;type:numeric(10,2)"`
	OfferedPricePerUnit   *decimal.Decimal `gorm:"column:offered_price_per_unit;type:numeric(10,2)"`
	BulkMinQuantity       *int             `gorm:"column:bulk_min_quantity"`

	ItemType   enums.CartLineType    `gorm:"column:item_type;not null;default:'regular'"`
	ItemStatus enums.OrderItemStatus `gorm:"column:item_status;not null;default:'pending'"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
