package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartlyhq/cartly-backend/pkg/enums"
)

type PromoCode struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string    `gorm:"column:code;not null;uniqueIndex"`
	Description string    `gorm:"column:description;type:text"`

	DiscountType  enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue decimal.Decimal    `gorm:"column:discount_value;type:numeric(10,2);not null"`

	MinOrderAmount    *decimal.Decimal `gorm:"column:min_order_amount;type:numeric(10,2)"`
	MaxDiscountAmount *decimal.Decimal `gorm:"column:max_discount_amount;type:numeric(10,2)"`

	UsageLimit *int `gorm:"column:usage_limit"`
	UsedCount  int  `gorm:"column:used_count;not null;default:0"`

	StartsAt  *time.Time `gorm:"column:starts_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PromoCode) TableName() string {
	return "promo_codes"
}
