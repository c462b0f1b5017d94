package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerToken is the server-side record of an issued token pair. The DB
// row is the source of truth for revocation; the cache is an accelerator.
type CustomerToken struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null;default:'auth'"`
	Token        string    `gorm:"column:token;type:text;not null;index"`
	RefreshToken string    `gorm:"column:refresh_token;type:text;not null"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null"`
	Revoked      bool      `gorm:"column:revoked;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CustomerToken) TableName() string {
	return "customer_tokens"
}
