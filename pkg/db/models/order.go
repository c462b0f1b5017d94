package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartlyhq/cartly-backend/pkg/enums"
)

// Order is the checkout header row. Identity fields are snapshots of the
// authenticated customer at order time; shipping fields come from the request.
type Order struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string    `gorm:"column:order_number;not null;uniqueIndex"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	FirstName string `gorm:"column:first_name;not null"`
	LastName  string `gorm:"column:last_name;not null"`
	Email     string `gorm:"column:email;not null"`
	Phone     string `gorm:"column:phone"`

	Address string `gorm:"column:address;type:text;not null"`
	City    string `gorm:"column:city;not null"`
	State   string `gorm:"column:state;not null"`
	ZipCode string `gorm:"column:zip_code;not null"`
	Country string `gorm:"column:country;not null"`

	SubtotalAmount decimal.Decimal   `gorm:"column:subtotal_amount;type:numeric(10,2);not null"`
	DiscountAmount decimal.Decimal   `gorm:"column:discount_amount;type:numeric(10,2);not null;default:0"`
	TotalAmount    decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	PromoCodeID    *uuid.UUID        `gorm:"column:promo_code_id;type:uuid"`
	Status         enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	OrderType      enums.OrderType   `gorm:"column:order_type;not null;default:'regular'"`
	Notes          string            `gorm:"column:notes;type:text"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
