package products

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	"github.com/cartlyhq/cartly-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	brands := `
CREATE TABLE IF NOT EXISTS brands (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  sku TEXT NOT NULL UNIQUE,
  price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'USD',
  category_id TEXT NOT NULL,
  brand_id TEXT NOT NULL,
  product_img_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(brands).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) (uuid.UUID, uuid.UUID) {
	t.Helper()

	categoryID := uuid.New()
	brandID := uuid.New()
	require.NoError(t, db.Create(&models.Category{ID: categoryID, Name: "Electronics", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Brand{ID: brandID, Name: "Acme", IsActive: true}).Error)
	return categoryID, brandID
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID, brandID uuid.UUID, title, sku string, stock int, active bool) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		Title:         title,
		SKU:           sku,
		Price:         decimal.NewFromFloat(10),
		TotalPrice:    decimal.NewFromFloat(11),
		StockQuantity: stock,
		Currency:      "USD",
		CategoryID:    categoryID,
		BrandID:       brandID,
		IsActive:      active,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestListFiltersAndJoins(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	categoryID, brandID := seedCatalog(t, db)
	seedProduct(t, db, categoryID, brandID, "Widget Max", "SKU-LIST-1", 5, true)
	seedProduct(t, db, categoryID, brandID, "Gadget Mini", "SKU-LIST-2", 3, true)
	seedProduct(t, db, categoryID, brandID, "Hidden Thing", "SKU-LIST-3", 1, false)

	items, total, err := repo.List(ctx, ListFilter{CategoryID: &categoryID}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	for _, item := range items {
		require.NotNil(t, item.CategoryName)
		require.Equal(t, "Electronics", *item.CategoryName)
		require.NotNil(t, item.BrandName)
		require.Equal(t, "Acme", *item.BrandName)
	}

	searched, total, err := repo.List(ctx, ListFilter{Search: "widget"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Widget Max", searched[0].Title)
}

func TestFindByIDExcludesInactive(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	categoryID, brandID := seedCatalog(t, db)
	active := seedProduct(t, db, categoryID, brandID, "Visible", "SKU-GET-1", 5, true)
	inactive := seedProduct(t, db, categoryID, brandID, "Invisible", "SKU-GET-2", 5, false)

	found, err := repo.FindByID(ctx, active.ID)
	require.NoError(t, err)
	require.Equal(t, "Visible", found.Title)

	_, err = repo.FindByID(ctx, inactive.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDecrementStockGuardsAgainstOversell(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	categoryID, brandID := seedCatalog(t, db)
	product := seedProduct(t, db, categoryID, brandID, "Scarce", "SKU-DEC-1", 3, true)

	ok, err := repo.DecrementStock(ctx, nil, product.ID, 2)
	require.NoError(t, err)
	require.True(t, ok)

	// only 1 left, a decrement of 2 must not apply
	ok, err = repo.DecrementStock(ctx, nil, product.ID, 2)
	require.NoError(t, err)
	require.False(t, ok)

	reloaded, err := repo.FindModelByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.StockQuantity)
}
