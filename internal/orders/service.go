package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/internal/cart"
	"github.com/cartlyhq/cartly-backend/internal/customers"
	"github.com/cartlyhq/cartly-backend/internal/products"
	"github.com/cartlyhq/cartly-backend/internal/promos"
	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	"github.com/cartlyhq/cartly-backend/pkg/enums"
	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
	"github.com/cartlyhq/cartly-backend/pkg/logger"
	"github.com/cartlyhq/cartly-backend/pkg/metrics"
	"github.com/cartlyhq/cartly-backend/pkg/pagination"
	"github.com/cartlyhq/cartly-backend/pkg/types"
)

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	OrderRepo    *Repository
	CartRepo     *cart.Repository
	ProductRepo  *products.Repository
	CustomerRepo *customers.Repository
	PromoService promos.Service
	Metrics      *metrics.CheckoutMetrics
	Logger       *logger.Logger
	Now          func() time.Time
}

// Service exposes the checkout pipeline and order queries.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, input CreateOrderInput) (OrderDTO, error)
	ListMine(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]OrderDTO, types.PageMeta, error)
	Get(ctx context.Context, orderID, customerID uuid.UUID) (OrderDTO, error)
	Cancel(ctx context.Context, orderID, customerID uuid.UUID) (OrderDTO, error)
}

type service struct {
	orderRepo    *Repository
	cartRepo     *cart.Repository
	productRepo  *products.Repository
	customerRepo *customers.Repository
	promoSvc     promos.Service
	checkout     *metrics.CheckoutMetrics
	logg         *logger.Logger
	now          func() time.Time
}

// NewService validates dependencies and builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.CustomerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer repo is required")
	}
	if params.PromoService == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo service is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		orderRepo:    params.OrderRepo,
		cartRepo:     params.CartRepo,
		productRepo:  params.ProductRepo,
		customerRepo: params.CustomerRepo,
		promoSvc:     params.PromoService,
		checkout:     params.Metrics,
		logg:         params.Logger,
		now:          params.Now,
	}, nil
}

// validatedLine pairs a cart line with the live product it resolved against
// and the unit price the order will charge.
type validatedLine struct {
	line      models.CartLine
	product   *models.Product
	unitPrice decimal.Decimal
}

// Create runs the checkout pipeline. The order row and its items are
// persisted atomically; promo usage, stock deduction, and cart cleanup run
// afterwards as best-effort steps and never undo the persisted order.
func (s *service) Create(ctx context.Context, customerID uuid.UUID, input CreateOrderInput) (OrderDTO, error) {
	start := s.now()

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	if len(input.Items) == 0 {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one cart item")
	}

	validated, err := s.validateItems(ctx, customerID, input.Items)
	if err != nil {
		return OrderDTO{}, err
	}

	orderType, err := resolveOrderType(validated)
	if err != nil {
		return OrderDTO{}, err
	}

	subtotal := decimal.Zero
	for _, v := range validated {
		subtotal = subtotal.Add(v.unitPrice.Mul(decimal.NewFromInt(int64(v.line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	discount := decimal.Zero
	var promo *models.PromoCode
	if code := strings.TrimSpace(input.PromoCode); code != "" {
		promo, err = s.promoSvc.Validate(ctx, code, subtotal)
		if err != nil {
			return OrderDTO{}, err
		}
		discount = s.promoSvc.ComputeDiscount(promo, subtotal)
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	order := s.buildOrder(customer, input, validated, orderType, subtotal, discount, total, promo)
	if err := s.orderRepo.CreateWithItems(ctx, order); err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	s.settle(ctx, customerID, order, validated, promo)

	s.checkout.IncOrderCreated(orderType.String())
	s.checkout.ObserveDuration(orderType.String(), s.now().Sub(start))

	return toDTO(order), nil
}

// ListMine returns the customer's orders newest first.
func (s *service) ListMine(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]OrderDTO, types.PageMeta, error) {
	records, total, err := s.orderRepo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, types.PageMeta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	dtos := make([]OrderDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, toDTO(&records[i]))
	}
	return dtos, params.Meta(total), nil
}

// Get returns one order with its items.
func (s *service) Get(ctx context.Context, orderID, customerID uuid.UUID) (OrderDTO, error) {
	order, err := s.loadOwnedOrder(ctx, orderID, customerID)
	if err != nil {
		return OrderDTO{}, err
	}
	return toDTO(order), nil
}

// Cancel transitions a pending order to cancelled.
func (s *service) Cancel(ctx context.Context, orderID, customerID uuid.UUID) (OrderDTO, error) {
	order, err := s.loadOwnedOrder(ctx, orderID, customerID)
	if err != nil {
		return OrderDTO{}, err
	}
	if order.Status != enums.OrderStatusPending {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "only pending orders can be cancelled")
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	order.Status = enums.OrderStatusCancelled
	return toDTO(order), nil
}

func (s *service) loadOwnedOrder(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.FindByIDForCustomer(ctx, orderID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// validateItems resolves every referenced cart line against live product
// data, applying per-item overrides from the request. Any failure rejects the
// whole checkout.
func (s *service) validateItems(ctx context.Context, customerID uuid.UUID, refs []OrderItemRef) ([]validatedLine, error) {
	validated := make([]validatedLine, 0, len(refs))
	for _, ref := range refs {
		found, err := s.cartRepo.FindActiveLine(ctx, ref.CartID, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound,
					fmt.Sprintf("cart item %s not found", ref.CartID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}
		line := *found
		if ref.RequestedPricePerUnit != nil {
			line.RequestedPricePerUnit = ref.RequestedPricePerUnit
		}
		if ref.OfferedPricePerUnit != nil {
			line.OfferedPricePerUnit = ref.OfferedPricePerUnit
		}
		if ref.BulkMinQuantity != nil {
			line.BulkMinQuantity = ref.BulkMinQuantity
		}

		product, err := s.productRepo.FindModelByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart references a product that no longer exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %q is no longer available", product.Title))
		}
		if product.StockQuantity < line.Quantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("insufficient stock for %q", product.Title))
		}

		unitPrice := product.TotalPrice
		if line.OfferedPricePerUnit != nil {
			unitPrice = *line.OfferedPricePerUnit
		}
		validated = append(validated, validatedLine{
			line:      line,
			product:   product,
			unitPrice: unitPrice,
		})
	}
	return validated, nil
}

// resolveOrderType derives the order type from the cart lines. Mixed carts
// are rejected because regular and bulk lines settle differently.
func resolveOrderType(validated []validatedLine) (enums.OrderType, error) {
	seen := map[enums.CartLineType]bool{}
	for _, v := range validated {
		lineType := v.line.Type
		if lineType == "" {
			lineType = enums.CartLineTypeRegular
		}
		seen[lineType] = true
	}
	if len(seen) > 1 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart contains mixed item types")
	}
	if seen[enums.CartLineTypeBulk] {
		return enums.OrderTypeBulk, nil
	}
	return enums.OrderTypeRegular, nil
}

func (s *service) buildOrder(customer *models.Customer, input CreateOrderInput, validated []validatedLine,
	orderType enums.OrderType, subtotal, discount, total decimal.Decimal, promo *models.PromoCode) *models.Order {

	firstName, lastName := splitFullName(customer.FullName)
	itemStatus := enums.OrderItemStatusAccepted
	if orderType == enums.OrderTypeBulk {
		itemStatus = enums.OrderItemStatusPending
	}

	order := &models.Order{
		ID:             uuid.New(),
		OrderNumber:    generateOrderNumber(s.now()),
		UserID:         customer.ID,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          customer.Email,
		Address:        input.Address,
		City:           input.City,
		State:          input.State,
		ZipCode:        input.ZipCode,
		Country:        input.Country,
		SubtotalAmount: subtotal,
		DiscountAmount: discount,
		TotalAmount:    total,
		Status:         enums.OrderStatusPending,
		OrderType:      orderType,
		Notes:          input.Notes,
	}
	if customer.Phone != nil {
		order.Phone = *customer.Phone
	}
	if promo != nil {
		order.PromoCodeID = &promo.ID
	}

	for _, v := range validated {
		lineType := v.line.Type
		if lineType == "" {
			lineType = enums.CartLineTypeRegular
		}
		quantity := decimal.NewFromInt(int64(v.line.Quantity))
		order.Items = append(order.Items, models.OrderItem{
			ID:                    uuid.New(),
			OrderID:               order.ID,
			ProductID:             v.product.ID,
			ProductName:           v.product.Title,
			ProductSKU:            v.product.SKU,
			Quantity:              v.line.Quantity,
			UnitPrice:             v.unitPrice,
			TotalPrice:            v.unitPrice.Mul(quantity).Round(2),
			RequestedPricePerUnit: v.line.RequestedPricePerUnit,
			OfferedPricePerUnit:   v.line.OfferedPricePerUnit,
			BulkMinQuantity:       v.line.BulkMinQuantity,
			ItemType:              lineType,
			ItemStatus:            itemStatus,
		})
	}
	return order
}

// settle runs the post-persistence steps. Each one is independent; failures
// are logged and counted but never propagate to the caller, since the order
// row already exists.
func (s *service) settle(ctx context.Context, customerID uuid.UUID, order *models.Order, validated []validatedLine, promo *models.PromoCode) {
	lctx := s.logg.WithField(ctx, "order_number", order.OrderNumber)

	if promo != nil {
		if err := s.promoSvc.IncrementUsage(ctx, promo.Code); err != nil {
			s.checkout.IncSettlementFailure("promo_usage")
			s.logg.Error(lctx, "incrementing promo usage failed", err)
		}
	}

	var stockErr error
	for _, v := range validated {
		applied, err := s.productRepo.DecrementStock(ctx, nil, v.product.ID, v.line.Quantity)
		if err != nil {
			stockErr = multierr.Append(stockErr, fmt.Errorf("product %s: %w", v.product.SKU, err))
			continue
		}
		if !applied {
			stockErr = multierr.Append(stockErr, fmt.Errorf("product %s: stock no longer covers quantity %d", v.product.SKU, v.line.Quantity))
		}
	}
	if stockErr != nil {
		s.checkout.IncSettlementFailure("stock_deduction")
		s.logg.Error(lctx, "stock deduction incomplete", stockErr)
	}

	ids := make([]uuid.UUID, 0, len(validated))
	for _, v := range validated {
		ids = append(ids, v.line.ID)
	}
	if err := s.cartRepo.HardDeleteByIDs(ctx, customerID, ids); err != nil {
		s.checkout.IncSettlementFailure("cart_cleanup")
		s.logg.Error(lctx, "cart cleanup failed", err)
	}
}

// splitFullName splits a display name into first/last on the first space.
func splitFullName(fullName string) (string, string) {
	trimmed := strings.TrimSpace(fullName)
	first, last, found := strings.Cut(trimmed, " ")
	if !found {
		return trimmed, ""
	}
	return first, strings.TrimSpace(last)
}
