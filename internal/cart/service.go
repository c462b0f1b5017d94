package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/internal/products"
	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	"github.com/cartlyhq/cartly-backend/pkg/enums"
	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    *Repository
	ProductRepo *products.Repository
}

// Service exposes business rules for cart management.
type Service interface {
	Fetch(ctx context.Context, customerID uuid.UUID) (SummaryDTO, error)
	Add(ctx context.Context, customerID uuid.UUID, input AddItemInput) (SummaryDTO, error)
	UpdateQuantity(ctx context.Context, customerID, lineID uuid.UUID, quantity int) (SummaryDTO, error)
	Remove(ctx context.Context, customerID, lineID uuid.UUID) error
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type service struct {
	cartRepo    *Repository
	productRepo *products.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
	}, nil
}

// Fetch returns the active cart with totals.
func (s *service) Fetch(ctx context.Context, customerID uuid.UUID) (SummaryDTO, error) {
	if customerID == uuid.Nil {
		return SummaryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	lines, err := s.cartRepo.ListActive(ctx, customerID)
	if err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}
	return summarize(lines), nil
}

// Add puts a product into the cart. Regular lines merge with an existing
// active line for the same product; bulk lines always insert fresh rows.
func (s *service) Add(ctx context.Context, customerID uuid.UUID, input AddItemInput) (SummaryDTO, error) {
	if customerID == uuid.Nil {
		return SummaryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if input.ProductID == uuid.Nil {
		return SummaryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return SummaryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	lineType := input.Type
	if lineType == "" {
		lineType = enums.CartLineTypeRegular
	}
	if !lineType.IsValid() {
		return SummaryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid cart line type %q", input.Type))
	}

	product, err := s.loadActiveProduct(ctx, input.ProductID)
	if err != nil {
		return SummaryDTO{}, err
	}
	if product.StockQuantity < input.Quantity {
		return SummaryDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("insufficient stock for %s", product.Title))
	}

	if lineType == enums.CartLineTypeBulk {
		if err := s.cartRepo.Insert(ctx, &models.CartLine{
			CustomerID:            customerID,
			ProductID:             input.ProductID,
			Quantity:              input.Quantity,
			Type:                  enums.CartLineTypeBulk,
			RequestedPricePerUnit: input.RequestedPricePerUnit,
			BulkMinQuantity:       input.BulkMinQuantity,
			IsActive:              true,
		}); err != nil {
			return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert bulk cart line")
		}
		return s.Fetch(ctx, customerID)
	}

	if err := s.mergeRegularLine(ctx, customerID, product, input.Quantity); err != nil {
		return SummaryDTO{}, err
	}
	return s.Fetch(ctx, customerID)
}

func (s *service) mergeRegularLine(ctx context.Context, customerID uuid.UUID, product *models.Product, quantity int) error {
	existing, err := s.cartRepo.FindRegularLine(ctx, customerID, product.ID, true)
	switch {
	case err == nil:
		merged := existing.Quantity + quantity
		if product.StockQuantity < merged {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("insufficient stock for %s", product.Title))
		}
		if err := s.cartRepo.UpdateQuantity(ctx, existing.ID, merged); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
		}
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to the inactive line, then a fresh insert

	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	inactive, err := s.cartRepo.FindRegularLine(ctx, customerID, product.ID, false)
	switch {
	case err == nil:
		if err := s.cartRepo.Reactivate(ctx, inactive.ID, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reactivate cart line")
		}
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.cartRepo.Insert(ctx, &models.CartLine{
			CustomerID: customerID,
			ProductID:  product.ID,
			Quantity:   quantity,
			Type:       enums.CartLineTypeRegular,
			IsActive:   true,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart line")
		}
		return nil

	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
}

// UpdateQuantity changes a line's quantity; zero soft deletes the line.
func (s *service) UpdateQuantity(ctx context.Context, customerID, lineID uuid.UUID, quantity int) (SummaryDTO, error) {
	if quantity < 0 {
		return SummaryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	line, err := s.loadOwnedActiveLine(ctx, customerID, lineID)
	if err != nil {
		return SummaryDTO{}, err
	}

	if quantity == 0 {
		if err := s.cartRepo.Deactivate(ctx, line.ID); err != nil {
			return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate cart line")
		}
		return s.Fetch(ctx, customerID)
	}

	product, err := s.loadActiveProduct(ctx, line.ProductID)
	if err != nil {
		return SummaryDTO{}, err
	}
	if product.StockQuantity < quantity {
		return SummaryDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("insufficient stock for %s", product.Title))
	}
	if err := s.cartRepo.UpdateQuantity(ctx, line.ID, quantity); err != nil {
		return SummaryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	return s.Fetch(ctx, customerID)
}

// Remove soft deletes a line owned by the customer.
func (s *service) Remove(ctx context.Context, customerID, lineID uuid.UUID) error {
	line, err := s.loadOwnedActiveLine(ctx, customerID, lineID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.Deactivate(ctx, line.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate cart line")
	}
	return nil
}

// Clear soft deletes every active line for the customer.
func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if err := s.cartRepo.DeactivateAll(ctx, customerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) loadOwnedActiveLine(ctx context.Context, customerID, lineID uuid.UUID) (*models.CartLine, error) {
	if customerID == uuid.Nil || lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart line id is required")
	}
	line, err := s.cartRepo.FindLine(ctx, lineID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if !line.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return line, nil
}

func (s *service) loadActiveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.FindModelByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s is not available", product.Title))
	}
	return product, nil
}

func summarize(lines []LineDTO) SummaryDTO {
	total := decimal.Zero
	count := 0
	currency := "USD"
	for _, line := range lines {
		total = total.Add(line.LineTotal)
		count += line.Quantity
	}
	if len(lines) > 0 && lines[0].Currency != "" {
		currency = lines[0].Currency
	}
	return SummaryDTO{
		Items:       lines,
		TotalItems:  count,
		TotalAmount: total,
		Currency:    currency,
	}
}
