package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/internal/products"
	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	"github.com/cartlyhq/cartly-backend/pkg/enums"
	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
	"github.com/cartlyhq/cartly-backend/pkg/pagination"
	"github.com/cartlyhq/cartly-backend/pkg/types"
)

// ServiceParams bundles the review service dependencies.
type ServiceParams struct {
	ReviewRepo  *Repository
	ProductRepo *products.Repository
}

// Service exposes review creation, moderation-aware listing, and author edits.
type Service interface {
	Create(ctx context.Context, customerID, productID uuid.UUID, input CreateReviewInput) (ReviewDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (ProductReviewsDTO, types.PageMeta, error)
	ListMine(ctx context.Context, customerID uuid.UUID) ([]ReviewDTO, error)
	Update(ctx context.Context, customerID, reviewID uuid.UUID, input UpdateReviewInput) (ReviewDTO, error)
	Delete(ctx context.Context, customerID, reviewID uuid.UUID) error
}

type service struct {
	reviewRepo  *Repository
	productRepo *products.Repository
}

// NewService validates dependencies and builds the review service.
func NewService(params ServiceParams) (Service, error) {
	if params.ReviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		reviewRepo:  params.ReviewRepo,
		productRepo: params.ProductRepo,
	}, nil
}

// Create records a pending review. The verified-purchase flag is derived from
// the customer's order history for the product.
func (s *service) Create(ctx context.Context, customerID, productID uuid.UUID, input CreateReviewInput) (ReviewDTO, error) {
	if err := validateRating(input.Rating); err != nil {
		return ReviewDTO{}, err
	}

	if _, err := s.productRepo.FindModelByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if _, err := s.reviewRepo.FindByCustomerAndProduct(ctx, customerID, productID); err == nil {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this product")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing review")
	}

	review := &models.Review{
		ID:         uuid.New(),
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		Status:     enums.ReviewStatusPending,
	}
	if orderID, err := s.reviewRepo.FindPurchaseOrder(ctx, customerID, productID); err == nil {
		review.OrderID = &orderID
		review.IsVerifiedPurchase = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if pkgerrors.IsUniqueViolation(err, "") {
			return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this product")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist review")
	}
	return toDTO(review), nil
}

// ListByProduct returns approved reviews with the product's rating summary.
func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (ProductReviewsDTO, types.PageMeta, error) {
	records, total, err := s.reviewRepo.ListApprovedByProduct(ctx, productID, params)
	if err != nil {
		return ProductReviewsDTO{}, types.PageMeta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	summary, err := s.reviewRepo.RatingSummary(ctx, productID)
	if err != nil {
		return ProductReviewsDTO{}, types.PageMeta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rating summary")
	}

	result := ProductReviewsDTO{
		Reviews: make([]ReviewDTO, 0, len(records)),
		Summary: summary,
	}
	for i := range records {
		result.Reviews = append(result.Reviews, toDTO(&records[i]))
	}
	return result, params.Meta(total), nil
}

// ListMine returns the customer's reviews in every moderation state.
func (s *service) ListMine(ctx context.Context, customerID uuid.UUID) ([]ReviewDTO, error) {
	records, err := s.reviewRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	dtos := make([]ReviewDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, toDTO(&records[i]))
	}
	return dtos, nil
}

// Update edits the author's own review and sends it back to moderation.
func (s *service) Update(ctx context.Context, customerID, reviewID uuid.UUID, input UpdateReviewInput) (ReviewDTO, error) {
	review, err := s.loadOwnedReview(ctx, reviewID, customerID)
	if err != nil {
		return ReviewDTO{}, err
	}

	updates := map[string]any{"status": enums.ReviewStatusPending}
	if input.Rating != nil {
		if err := validateRating(*input.Rating); err != nil {
			return ReviewDTO{}, err
		}
		updates["rating"] = *input.Rating
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		updates["comment"] = *input.Comment
		review.Comment = *input.Comment
	}

	if err := s.reviewRepo.Update(ctx, review.ID, updates); err != nil {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}
	review.Status = enums.ReviewStatusPending
	return toDTO(review), nil
}

// Delete removes the author's own review.
func (s *service) Delete(ctx context.Context, customerID, reviewID uuid.UUID) error {
	review, err := s.loadOwnedReview(ctx, reviewID, customerID)
	if err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func (s *service) loadOwnedReview(ctx context.Context, reviewID, customerID uuid.UUID) (*models.Review, error) {
	review, err := s.reviewRepo.FindOwned(ctx, reviewID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return review, nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return nil
}
