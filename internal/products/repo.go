package products

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	"github.com/cartlyhq/cartly-backend/pkg/pagination"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productSummaryRecord struct {
	ID            uuid.UUID       `gorm:"column:id"`
	Title         string          `gorm:"column:title"`
	Description   *string         `gorm:"column:description"`
	SKU           string          `gorm:"column:sku"`
	Price         decimal.Decimal `gorm:"column:price"`
	TotalPrice    decimal.Decimal `gorm:"column:total_price"`
	StockQuantity int             `gorm:"column:stock_quantity"`
	Currency      string          `gorm:"column:currency"`
	CategoryName  *string         `gorm:"column:category_name"`
	BrandName     *string         `gorm:"column:brand_name"`
	ImageURL      *string         `gorm:"column:product_img_url"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (r productSummaryRecord) toSummary() ProductSummary {
	return ProductSummary{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		SKU:           r.SKU,
		Price:         r.Price,
		TotalPrice:    r.TotalPrice,
		StockQuantity: r.StockQuantity,
		Currency:      r.Currency,
		CategoryName:  r.CategoryName,
		BrandName:     r.BrandName,
		ImageURL:      r.ImageURL,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// List returns active products joined with category/brand names, filtered
// and paginated.
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]ProductSummary, int64, error) {
	params = params.Normalize()

	base := r.db.WithContext(ctx).
		Table("products p").
		Where("p.is_active = ?", true)

	if filter.CategoryID != nil {
		base = base.Where("p.category_id = ?", *filter.CategoryID)
	}
	if filter.BrandID != nil {
		base = base.Where("p.brand_id = ?", *filter.BrandID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		base = base.Where("LOWER(p.title) LIKE ? OR LOWER(p.sku) LIKE ?", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []productSummaryRecord
	err := base.Session(&gorm.Session{}).
		Select(strings.Join([]string{
			"p.id", "p.title", "p.description", "p.sku", "p.price",
			"p.total_price", "p.stock_quantity", "p.currency",
			"c.name AS category_name", "b.name AS brand_name",
			"p.product_img_url", "p.created_at", "p.updated_at",
		}, ", ")).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins("LEFT JOIN brands b ON b.id = p.brand_id").
		Order("p.created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Scan(&records).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]ProductSummary, 0, len(records))
	for _, record := range records {
		items = append(items, record.toSummary())
	}
	return items, total, nil
}

// FindByID loads an active product joined with category/brand names.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*ProductSummary, error) {
	var record productSummaryRecord
	err := r.db.WithContext(ctx).
		Table("products p").
		Select(strings.Join([]string{
			"p.id", "p.title", "p.description", "p.sku", "p.price",
			"p.total_price", "p.stock_quantity", "p.currency",
			"c.name AS category_name", "b.name AS brand_name",
			"p.product_img_url", "p.created_at", "p.updated_at",
		}, ", ")).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins("LEFT JOIN brands b ON b.id = p.brand_id").
		Where("p.id = ? AND p.is_active = ?", id, true).
		Take(&record).Error
	if err != nil {
		return nil, err
	}
	summary := record.toSummary()
	return &summary, nil
}

// FindModelByID loads the raw product row regardless of join data. Cart and
// checkout use it for stock checks.
func (r *Repository) FindModelByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock applies a conditional stock decrement. It only succeeds
// when the current stock still covers the quantity.
func (r *Repository) DecrementStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) (bool, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	result := conn.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
