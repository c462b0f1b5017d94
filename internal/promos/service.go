package promos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	"github.com/cartlyhq/cartly-backend/pkg/enums"
	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
)

// ServiceParams groups dependencies for the promo service.
type ServiceParams struct {
	PromoRepo *Repository
	Now       func() time.Time
}

// Service exposes promo code validation and discount computation.
type Service interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*models.PromoCode, error)
	ComputeDiscount(promo *models.PromoCode, subtotal decimal.Decimal) decimal.Decimal
	IncrementUsage(ctx context.Context, code string) error
}

type service struct {
	promoRepo *Repository
	now       func() time.Time
}

// NewService builds a promo service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.PromoRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{promoRepo: params.PromoRepo, now: now}, nil
}

// Validate checks the promo against activation window, usage limit, and the
// order subtotal.
func (s *service) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*models.PromoCode, error) {
	promo, err := s.promoRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid promo code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo code")
	}

	now := s.now()
	switch {
	case !promo.IsActive:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is not active")
	case promo.StartsAt != nil && now.Before(*promo.StartsAt):
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is not active yet")
	case promo.ExpiresAt != nil && now.After(*promo.ExpiresAt):
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code has expired")
	case promo.UsageLimit != nil && promo.UsedCount >= *promo.UsageLimit:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code usage limit reached")
	case promo.MinOrderAmount != nil && subtotal.LessThan(*promo.MinOrderAmount):
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order subtotal must be at least %s to use this code", promo.MinOrderAmount.StringFixed(2)))
	}

	return promo, nil
}

// ComputeDiscount derives the discount amount rounded to two decimals.
// Percentage promos are capped by MaxDiscountAmount when set; fixed promos
// never exceed the subtotal.
func (s *service) ComputeDiscount(promo *models.PromoCode, subtotal decimal.Decimal) decimal.Decimal {
	if promo == nil {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch promo.DiscountType {
	case enums.DiscountTypePercentage:
		discount = subtotal.Mul(promo.DiscountValue).Div(decimal.NewFromInt(100))
		if promo.MaxDiscountAmount != nil && discount.GreaterThan(*promo.MaxDiscountAmount) {
			discount = *promo.MaxDiscountAmount
		}
	case enums.DiscountTypeFixed:
		discount = promo.DiscountValue
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
	default:
		return decimal.Zero
	}

	return discount.Round(2)
}

// IncrementUsage is a best-effort post-commit counter bump.
func (s *service) IncrementUsage(ctx context.Context, code string) error {
	return s.promoRepo.IncrementUsage(ctx, code)
}
