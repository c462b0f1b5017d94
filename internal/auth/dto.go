package auth

import (
	"github.com/cartlyhq/cartly-backend/internal/customers"
)

// RegisterInput carries a validated registration request.
type RegisterInput struct {
	FullName string
	Username string
	Email    string
	Password string
	Phone    *string
}

// LoginInput carries a validated login request.
type LoginInput struct {
	Email    string
	Password string
}

// TokenPairDTO is the minted token pair returned to clients.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SessionDTO bundles the customer profile with its tokens.
type SessionDTO struct {
	Customer customers.ProfileDTO `json:"customer"`
	Tokens   TokenPairDTO         `json:"tokens"`
}

// ChangePasswordInput carries a validated password change request.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}
