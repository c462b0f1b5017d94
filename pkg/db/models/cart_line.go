package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartlyhq/cartly-backend/pkg/enums"
)

// CartLine is one product+quantity entry in a customer's cart. Lines are
// soft-deleted (is_active=false) by cart edits and hard-deleted only when a
// checkout consumes them. At most one active regular line may exist per
// (customer, product); bulk lines may repeat.
type CartLine struct {
	ID                    uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID            uuid.UUID          `gorm:"column:customer_id;type:uuid;not null;index"`
	ProductID             uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index"`
	Quantity              int                `gorm:"column:quantity;not null;default:1"`
	Type                  enums.CartLineType `gorm:"column:type;not null;default:'regular'"`
	RequestedPricePerUnit *decimal.Decimal   `gorm:"column:requested_price_per_unit;type:numeric(10,2)"`
	OfferedPricePerUnit   *decimal.Decimal   `gorm:"column:offered_price_per_unit;type:numeric(10,2)"`
	BulkMinQuantity       *int               `gorm:"column:bulk_min_quantity"`
	IsActive              bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt             time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartLine) TableName() string {
	return "customer_cart"
}
