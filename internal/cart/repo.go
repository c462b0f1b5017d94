package cart

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	"github.com/cartlyhq/cartly-backend/pkg/enums"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type cartLineRecord struct {
	ID                    uuid.UUID          `gorm:"column:id"`
	ProductID             uuid.UUID          `gorm:"column:product_id"`
	ProductTitle          string             `gorm:"column:product_title"`
	ProductSKU            string             `gorm:"column:product_sku"`
	UnitPrice             decimal.Decimal    `gorm:"column:unit_price"`
	Currency              string             `gorm:"column:currency"`
	Quantity              int                `gorm:"column:quantity"`
	Type                  enums.CartLineType `gorm:"column:type"`
	RequestedPricePerUnit *decimal.Decimal   `gorm:"column:requested_price_per_unit"`
	OfferedPricePerUnit   *decimal.Decimal   `gorm:"column:offered_price_per_unit"`
	BulkMinQuantity       *int               `gorm:"column:bulk_min_quantity"`
	CategoryName          *string            `gorm:"column:category_name"`
	BrandName             *string            `gorm:"column:brand_name"`
	ImageURL              *string            `gorm:"column:product_img_url"`
	CreatedAt             time.Time          `gorm:"column:created_at"`
}

// ListActive returns the customer's active lines joined with product data.
func (r *Repository) ListActive(ctx context.Context, customerID uuid.UUID) ([]LineDTO, error) {
	var records []cartLineRecord
	err := r.db.WithContext(ctx).
		Table("customer_cart cc").
		Select(strings.Join([]string{
			"cc.id", "cc.product_id", "p.title AS product_title",
			"p.sku AS product_sku", "p.total_price AS unit_price",
			"p.currency", "cc.quantity", "cc.type",
			"cc.requested_price_per_unit", "cc.offered_price_per_unit",
			"cc.bulk_min_quantity", "c.name AS category_name",
			"b.name AS brand_name", "p.product_img_url", "cc.created_at",
		}, ", ")).
		Joins("JOIN products p ON p.id = cc.product_id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins("LEFT JOIN brands b ON b.id = p.brand_id").
		Where("cc.customer_id = ? AND cc.is_active = ?", customerID, true).
		Order("cc.created_at ASC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	lines := make([]LineDTO, 0, len(records))
	for _, record := range records {
		unit := record.UnitPrice
		if record.OfferedPricePerUnit != nil {
			unit = *record.OfferedPricePerUnit
		}
		lines = append(lines, LineDTO{
			ID:                    record.ID,
			ProductID:             record.ProductID,
			ProductTitle:          record.ProductTitle,
			ProductSKU:            record.ProductSKU,
			UnitPrice:             unit,
			Currency:              record.Currency,
			Quantity:              record.Quantity,
			LineTotal:             unit.Mul(decimal.NewFromInt(int64(record.Quantity))),
			Type:                  record.Type,
			RequestedPricePerUnit: record.RequestedPricePerUnit,
			OfferedPricePerUnit:   record.OfferedPricePerUnit,
			BulkMinQuantity:       record.BulkMinQuantity,
			CategoryName:          record.CategoryName,
			BrandName:             record.BrandName,
			ImageURL:              record.ImageURL,
			CreatedAt:             record.CreatedAt,
		})
	}
	return lines, nil
}

// FindActiveLine loads an active line scoped to its owner, or
// gorm.ErrRecordNotFound.
func (r *Repository) FindActiveLine(ctx context.Context, lineID, customerID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ? AND is_active = ?", lineID, customerID, true).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// FindLine loads a line scoped to its owner regardless of active state.
func (r *Repository) FindLine(ctx context.Context, lineID, customerID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", lineID, customerID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// FindRegularLine returns the customer's regular line for a product in the
// requested active state, or gorm.ErrRecordNotFound.
func (r *Repository) FindRegularLine(ctx context.Context, customerID, productID uuid.UUID, active bool) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ? AND type = ? AND is_active = ?",
			customerID, productID, enums.CartLineTypeRegular, active).
		Order("updated_at DESC").
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// Insert persists a new cart line.
func (r *Repository) Insert(ctx context.Context, line *models.CartLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(line).Error
}

// UpdateQuantity sets the quantity for a line.
func (r *Repository) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", lineID).
		UpdateColumn("quantity", quantity).Error
}

// Reactivate flips a soft-deleted line back on with a fresh quantity.
func (r *Repository) Reactivate(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", lineID).
		Updates(map[string]any{"is_active": true, "quantity": quantity}).Error
}

// Deactivate soft deletes a line.
func (r *Repository) Deactivate(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", lineID).
		UpdateColumn("is_active", false).Error
}

// DeactivateAll soft deletes every active line for the customer.
func (r *Repository) DeactivateAll(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("customer_id = ? AND is_active = ?", customerID, true).
		UpdateColumn("is_active", false).Error
}

// HardDeleteByIDs permanently removes lines scoped to the customer. Checkout
// cleanup is the only caller.
func (r *Repository) HardDeleteByIDs(ctx context.Context, customerID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("customer_id = ? AND id IN ?", customerID, ids).
		Delete(&models.CartLine{}).Error
}
