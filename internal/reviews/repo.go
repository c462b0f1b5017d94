package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	"github.com/cartlyhq/cartly-backend/pkg/enums"
	"github.com/cartlyhq/cartly-backend/pkg/pagination"
)

// Repository encapsulates review persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a review repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a review.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByCustomerAndProduct returns the customer's review for a product.
func (r *Repository) FindByCustomerAndProduct(ctx context.Context, customerID, productID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindOwned loads a review scoped to its author.
func (r *Repository) FindOwned(ctx context.Context, reviewID, customerID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", reviewID, customerID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListApprovedByProduct returns a product's approved reviews, newest first.
func (r *Repository) ListApprovedByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Review, int64, error) {
	params = params.Normalize()

	base := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ? AND status = ?", productID, enums.ReviewStatusApproved)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Review
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListByCustomer returns all of a customer's reviews regardless of status.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Review, error) {
	var records []models.Review
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

type ratingRow struct {
	Average *float64 `gorm:"column:average"`
	Count   int64    `gorm:"column:count"`
}

// RatingSummary aggregates approved ratings for a product.
func (r *Repository) RatingSummary(ctx context.Context, productID uuid.UUID) (RatingSummary, error) {
	var row ratingRow
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("product_id = ? AND status = ?", productID, enums.ReviewStatusApproved).
		Scan(&row).Error
	if err != nil {
		return RatingSummary{}, err
	}
	summary := RatingSummary{Count: row.Count}
	if row.Average != nil {
		summary.Average = *row.Average
	}
	return summary, nil
}

// Update applies field updates and moderation state to a review.
func (r *Repository) Update(ctx context.Context, reviewID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", reviewID).
		Updates(updates).Error
}

// Delete removes a review.
func (r *Repository) Delete(ctx context.Context, reviewID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.Review{}, "id = ?", reviewID).Error
}

// FindPurchaseOrder returns the id of an order through which the customer
// bought the product, or gorm.ErrRecordNotFound.
func (r *Repository) FindPurchaseOrder(ctx context.Context, customerID, productID uuid.UUID) (uuid.UUID, error) {
	var orderID uuid.UUID
	err := r.db.WithContext(ctx).
		Table("order_items oi").
		Select("oi.order_id").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.user_id = ? AND oi.product_id = ?", customerID, productID).
		Order("oi.created_at ASC").
		Limit(1).
		Scan(&orderID).Error
	if err != nil {
		return uuid.Nil, err
	}
	if orderID == uuid.Nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return orderID, nil
}
