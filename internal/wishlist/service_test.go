package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/internal/products"
	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS products (
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
);`,
		`CREATE TABLE IF NOT EXISTS wishlists (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (customer_id, product_id)
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newWishlistService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		WishlistRepo: NewRepository(db),
		ProductRepo:  products.NewRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func seedWishlistProduct(t *testing.T, db *gorm.DB, sku string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		Title:         "Product " + sku,
		SKU:           sku,
		Price:         decimal.NewFromFloat(25),
		TotalPrice:    decimal.NewFromFloat(27.50),
		StockQuantity: stock,
		Currency:      "USD",
		CategoryID:    uuid.New(),
		BrandID:       uuid.New(),
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAddListRemove(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)
	ctx := context.Background()

	customerID := uuid.New()
	inStock := seedWishlistProduct(t, db, "WISH-SKU-1", 5)
	soldOut := seedWishlistProduct(t, db, "WISH-SKU-2", 0)

	require.NoError(t, svc.Add(ctx, customerID, inStock.ID))
	require.NoError(t, svc.Add(ctx, customerID, soldOut.ID))

	items, err := svc.List(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byProduct := map[uuid.UUID]ItemDTO{}
	for _, item := range items {
		byProduct[item.ProductID] = item
	}
	require.True(t, byProduct[inStock.ID].InStock)
	require.False(t, byProduct[soldOut.ID].InStock)
	require.Equal(t, inStock.Title, byProduct[inStock.ID].Title)
	require.True(t, byProduct[inStock.ID].Price.Equal(inStock.TotalPrice))

	require.NoError(t, svc.Remove(ctx, customerID, inStock.ID))
	items, err = svc.List(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAddDuplicateConflicts(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)
	ctx := context.Background()

	customerID := uuid.New()
	product := seedWishlistProduct(t, db, "WISH-SKU-3", 5)

	require.NoError(t, svc.Add(ctx, customerID, product.ID))
	err := svc.Add(ctx, customerID, product.ID)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestAddUnknownProductNotFound(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)

	err := svc.Add(context.Background(), uuid.New(), uuid.New())
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRemoveMissingEntryNotFound(t *testing.T) {
	db := setupWishlistTestDB(t)
	svc := newWishlistService(t, db)

	err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
