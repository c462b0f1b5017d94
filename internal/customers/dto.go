package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/cartlyhq/cartly-backend/pkg/db/models"
)

// CreateCustomerDTO carries the persisted fields for a new customer account.
type CreateCustomerDTO struct {
	FullName     string
	Username     string
	Email        string
	PasswordHash string
	Phone        *string
	RoleID       *uuid.UUID
}

// ToModel maps the DTO onto a fresh customer model.
func (d CreateCustomerDTO) ToModel() *models.Customer {
	return &models.Customer{
		ID:           uuid.New(),
		FullName:     d.FullName,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Phone:        d.Phone,
		RoleID:       d.RoleID,
		IsActive:     true,
	}
}

// UpdateProfileDTO carries the mutable profile fields.
type UpdateProfileDTO struct {
	FullName *string
	Phone    *string
}

// ProfileDTO is the external view of a customer account.
type ProfileDTO struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"fullname"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	EmailVerified bool      `json:"is_email_verified"`
	PhoneVerified bool      `json:"is_phone_verified"`
	Role          string    `json:"role,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToProfileDTO builds the external profile view from the model.
func ToProfileDTO(customer *models.Customer, roleSlug string) ProfileDTO {
	return ProfileDTO{
		ID:            customer.ID,
		FullName:      customer.FullName,
		Username:      customer.Username,
		Email:         customer.Email,
		Phone:         customer.Phone,
		EmailVerified: customer.EmailVerified,
		PhoneVerified: customer.PhoneVerified,
		Role:          roleSlug,
		CreatedAt:     customer.CreatedAt,
	}
}
