package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPayload captures the data available when minting a JWT.
type TokenPayload struct {
	CustomerID uuid.UUID
	Email      string
	Role       string
	JTI        string
}

// TokenClaims represents the typed JWT issued to clients.
type TokenClaims struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role,omitempty"`
	Kind       TokenKind `json:"kind"`
	jwt.RegisteredClaims
}
