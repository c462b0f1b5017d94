package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	"github.com/cartlyhq/cartly-backend/pkg/enums"
)

// CreateReviewInput carries a new review for a product.
type CreateReviewInput struct {
	Rating  int
	Comment string
}

// UpdateReviewInput carries edits to an existing review. Nil fields are
// left untouched.
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

// ReviewDTO is the API shape of one review.
type ReviewDTO struct {
	ID                 uuid.UUID          `json:"id"`
	ProductID          uuid.UUID          `json:"product_id"`
	CustomerID         uuid.UUID          `json:"customer_id"`
	Rating             int                `json:"rating"`
	Comment            string             `json:"comment,omitempty"`
	Status             enums.ReviewStatus `json:"status"`
	IsVerifiedPurchase bool               `json:"is_verified_purchase"`
	CreatedAt          time.Time          `json:"created_at"`
}

// RatingSummary aggregates approved ratings for a product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// ProductReviewsDTO pairs a product's approved reviews with their summary.
type ProductReviewsDTO struct {
	Reviews []ReviewDTO   `json:"reviews"`
	Summary RatingSummary `json:"summary"`
}

func toDTO(review *models.Review) ReviewDTO {
	return ReviewDTO{
		ID:                 review.ID,
		ProductID:          review.ProductID,
		CustomerID:         review.CustomerID,
		Rating:             review.Rating,
		Comment:            review.Comment,
		Status:             review.Status,
		IsVerifiedPurchase: review.IsVerifiedPurchase,
		CreatedAt:          review.CreatedAt,
	}
}
