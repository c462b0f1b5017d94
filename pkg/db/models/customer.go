package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents the canonical shopper identity.
type Customer struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FullName      string     `gorm:"column:fullname;not null"`
	Username      string     `gorm:"column:username;not null;uniqueIndex"`
	Email         string     `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash  string     `gorm:"column:password_hash;not null"`
	Phone         *string    `gorm:"column:phone"`
	EmailVerified bool       `gorm:"column:is_email_verified;not null;default:false"`
	PhoneVerified bool       `gorm:"column:is_phone_verified;not null;default:false"`
	RoleID        *uuid.UUID `gorm:"column:role_id;type:uuid"`
	IsActive      bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the legacy table name.
func (Customer) TableName() string {
	return "customers"
}

// Role groups customers for authorization purposes. Registration always
// assigns the role with slug "customer".
type Role struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}
