package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	"github.com/cartlyhq/cartly-backend/pkg/enums"
)

// OrderItemRef names one cart line to check out. The optional fields override
// the negotiated bulk values stored on the line.
type OrderItemRef struct {
	CartID                uuid.UUID
	RequestedPricePerUnit *decimal.Decimal
	OfferedPricePerUnit   *decimal.Decimal
	BulkMinQuantity       *int
}

// CreateOrderInput carries the checkout request. Only the referenced cart
// lines are ordered; identity fields on the order are snapshotted from the
// customer row, not from this payload.
type CreateOrderInput struct {
	Items     []OrderItemRef
	Address   string
	City      string
	State     string
	ZipCode   string
	Country   string
	PromoCode string
	Notes     string
}

// OrderItemDTO is the API shape of one order line.
type OrderItemDTO struct {
	ID                    uuid.UUID             `json:"id"`
	ProductID             uuid.UUID             `json:"product_id"`
	ProductName           string                `json:"product_name"`
	ProductSKU            string                `json:"product_sku"`
	Quantity              int                   `json:"quantity"`
	UnitPrice             decimal.Decimal       `json:"unit_price"`
	TotalPrice            decimal.Decimal       `json:"total_price"`
	RequestedPricePerUnit *decimal.Decimal      `json:"requested_price_per_unit,omitempty"`
	OfferedPricePerUnit   *decimal.Decimal      `json:"offered_price_per_unit,omitempty"`
	BulkMinQuantity       *int                  `json:"bulk_min_quantity,omitempty"`
	ItemType              enums.CartLineType    `json:"item_type"`
	ItemStatus            enums.OrderItemStatus `json:"item_status"`
}

// OrderDTO is the API shape of an order with its lines.
type OrderDTO struct {
	ID             uuid.UUID         `json:"id"`
	OrderNumber    string            `json:"order_number"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone,omitempty"`
	Address        string            `json:"address"`
	City           string            `json:"city"`
	State          string            `json:"state"`
	ZipCode        string            `json:"zip_code"`
	Country        string            `json:"country"`
	SubtotalAmount decimal.Decimal   `json:"subtotal_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	Status         enums.OrderStatus `json:"status"`
	OrderType      enums.OrderType   `json:"order_type"`
	Notes          string            `json:"notes,omitempty"`
	Items          []OrderItemDTO    `json:"items,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

func toItemDTO(item models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:                    item.ID,
		ProductID:             item.ProductID,
		ProductName:           item.ProductName,
		ProductSKU:            item.ProductSKU,
		Quantity:              item.Quantity,
		UnitPrice:             item.UnitPrice,
		TotalPrice:            item.TotalPrice,
		RequestedPricePerUnit: item.RequestedPricePerUnit,
		OfferedPricePerUnit:   item.OfferedPricePerUnit,
		BulkMinQuantity:       item.BulkMinQuantity,
		ItemType:              item.ItemType,
		ItemStatus:            item.ItemStatus,
	}
}

func toDTO(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		FirstName:      order.FirstName,
		LastName:       order.LastName,
		Email:          order.Email,
		Phone:          order.Phone,
		Address:        order.Address,
		City:           order.City,
		State:          order.State,
		ZipCode:        order.ZipCode,
		Country:        order.Country,
		SubtotalAmount: order.SubtotalAmount,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
		Status:         order.Status,
		OrderType:      order.OrderType,
		Notes:          order.Notes,
		CreatedAt:      order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, toItemDTO(item))
	}
	return dto
}
