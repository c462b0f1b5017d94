package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cartlyhq/cartly-backend/pkg/enums"
)

type Review struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_reviews_customer_product"`
	CustomerID uuid.UUID  `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:idx_reviews_customer_product"`
	OrderID    *uuid.UUID `gorm:"column:order_id;type:uuid"`

	Rating  int    `gorm:"column:rating;not null"`
	Comment string `gorm:"column:comment;type:text"`

	Status             enums.ReviewStatus `gorm:"column:status;not null;default:'pending'"`
	IsVerifiedPurchase bool               `gorm:"column:is_verified_purchase;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Review) TableName() string {
	return "reviews"
}
