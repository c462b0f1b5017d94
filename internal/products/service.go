package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
	"github.com/cartlyhq/cartly-backend/pkg/pagination"
	"github.com/cartlyhq/cartly-backend/pkg/types"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	ProductRepo *Repository
}

// Service exposes read-only catalog browsing.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]ProductSummary, types.PageMeta, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductSummary, error)
}

type service struct {
	productRepo *Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{productRepo: params.ProductRepo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]ProductSummary, types.PageMeta, error) {
	items, total, err := s.productRepo.List(ctx, filter, params)
	if err != nil {
		return nil, types.PageMeta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return items, params.Meta(total), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductSummary, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	summary, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return summary, nil
}
