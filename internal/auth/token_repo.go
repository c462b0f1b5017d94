package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/pkg/db/models"
)

// TokenRepository persists issued token pairs. Rows are the source of truth
// for revocation; the session cache only accelerates lookups.
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository constructs a token repo bound to the provided GORM DB.
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create inserts a token row.
func (r *TokenRepository) Create(ctx context.Context, token *models.CustomerToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.Name == "" {
		token.Name = "auth"
	}
	return r.db.WithContext(ctx).Create(token).Error
}

// FindValid loads an unrevoked row scoped to both the literal access token
// and the customer.
func (r *TokenRepository) FindValid(ctx context.Context, token string, customerID uuid.UUID) (*models.CustomerToken, error) {
	var row models.CustomerToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND customer_id = ? AND revoked = ?", token, customerID, false).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByRefresh loads an unrevoked row by its refresh token and customer.
func (r *TokenRepository) FindByRefresh(ctx context.Context, refreshToken string, customerID uuid.UUID) (*models.CustomerToken, error) {
	var row models.CustomerToken
	err := r.db.WithContext(ctx).
		Where("refresh_token = ? AND customer_id = ? AND revoked = ?", refreshToken, customerID, false).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// RotateAccess swaps in a freshly minted access token and expiry.
func (r *TokenRepository) RotateAccess(ctx context.Context, id uuid.UUID, accessToken string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.CustomerToken{}).
		Where("id = ?", id).
		Updates(map[string]any{"token": accessToken, "expires_at": expiresAt}).Error
}

// DeleteByToken removes the row holding the literal access token.
func (r *TokenRepository) DeleteByToken(ctx context.Context, token string, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("token = ? AND customer_id = ?", token, customerID).
		Delete(&models.CustomerToken{}).Error
}
