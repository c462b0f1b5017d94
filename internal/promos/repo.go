package promos

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/pkg/db/models"
)

// Repository encapsulates promo code persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a promos repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByCode loads a promo code row, case-insensitively.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// IncrementUsage bumps used_count by one.
func (r *Repository) IncrementUsage(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}
