package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/internal/products"
	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
)

// ItemDTO is one wishlisted product.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	InStock   bool            `json:"in_stock"`
	ImageURL  *string         `json:"image_url,omitempty"`
	AddedAt   time.Time       `json:"added_at"`
}

// ServiceParams bundles the wishlist service dependencies.
type ServiceParams struct {
	WishlistRepo *Repository
	ProductRepo  *products.Repository
}

// Service exposes wishlist management.
type Service interface {
	Add(ctx context.Context, customerID, productID uuid.UUID) error
	Remove(ctx context.Context, customerID, productID uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID) ([]ItemDTO, error)
}

type service struct {
	wishlistRepo *Repository
	productRepo  *products.Repository
}

// NewService validates dependencies and builds the wishlist service.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
	}, nil
}

// Add wishlists a product for the customer.
func (s *service) Add(ctx context.Context, customerID, productID uuid.UUID) error {
	if _, err := s.productRepo.FindModelByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	exists, err := s.wishlistRepo.Exists(ctx, customerID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeConflict, "product is already in your wishlist")
	}

	err = s.wishlistRepo.Insert(ctx, &models.WishlistItem{
		CustomerID: customerID,
		ProductID:  productID,
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is already in your wishlist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist wishlist entry")
	}
	return nil
}

// Remove deletes the customer's wishlist entry for a product.
func (s *service) Remove(ctx context.Context, customerID, productID uuid.UUID) error {
	deleted, err := s.wishlistRepo.Delete(ctx, customerID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete wishlist entry")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in your wishlist")
	}
	return nil
}

// List returns the customer's wishlist joined with product data.
func (s *service) List(ctx context.Context, customerID uuid.UUID) ([]ItemDTO, error) {
	items, err := s.wishlistRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dto := ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			AddedAt:   item.CreatedAt,
		}
		if item.Product != nil {
			dto.Title = item.Product.Title
			dto.SKU = item.Product.SKU
			dto.Price = item.Product.TotalPrice
			dto.Currency = item.Product.Currency
			dto.InStock = item.Product.StockQuantity > 0
			dto.ImageURL = item.Product.ImageURL
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}
