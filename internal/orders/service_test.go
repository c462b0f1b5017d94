package orders

import (
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
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
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// a per-test database name keeps tests isolated; a single shared in-memory
	// DB would leak orders between tests and break the zero-count assertions
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  fullname TEXT NOT NULL,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  phone TEXT,
  is_email_verified INTEGER NOT NULL DEFAULT 0,
  is_phone_verified INTEGER NOT NULL DEFAULT 0,
  role_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
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
		`CREATE TABLE IF NOT EXISTS customer_cart (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  type TEXT NOT NULL DEFAULT 'regular',
  requested_price_per_unit NUMERIC,
  offered_price_per_unit NUMERIC,
  bulk_min_quantity INTEGER,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS promo_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  description TEXT,
  discount_type TEXT NOT NULL,
  discount_value NUMERIC NOT NULL,
  min_order_amount NUMERIC,
  max_discount_amount NUMERIC,
  usage_limit INTEGER,
  used_count INTEGER NOT NULL DEFAULT 0,
  starts_at DATETIME,
  expires_at DATETIME,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT,
  address TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  zip_code TEXT NOT NULL,
  country TEXT NOT NULL,
  subtotal_amount NUMERIC NOT NULL,
  discount_amount NUMERIC NOT NULL DEFAULT 0,
  total_amount NUMERIC NOT NULL,
  promo_code_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  order_type TEXT NOT NULL DEFAULT 'regular',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  product_sku TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  requested_price_per_unit NUMERIC,
  offered_price_per_unit NUMERIC,
  bulk_min_quantity INTEGER,
  item_type TEXT NOT NULL DEFAULT 'regular',
  item_status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type ordersFixture struct {
	svc      Service
	db       *gorm.DB
	cartRepo *cart.Repository
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()

	db := setupOrdersTestDB(t)
	promoSvc, err := promos.NewService(promos.ServiceParams{
		PromoRepo: promos.NewRepository(db),
	})
	require.NoError(t, err)

	cartRepo := cart.NewRepository(db)
	svc, err := NewService(ServiceParams{
		OrderRepo:    NewRepository(db),
		CartRepo:     cartRepo,
		ProductRepo:  products.NewRepository(db),
		CustomerRepo: customers.NewRepository(db),
		PromoService: promoSvc,
		Metrics:      metrics.NewCheckoutMetrics(prometheus.NewRegistry()),
		Logger:       logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return &ordersFixture{svc: svc, db: db, cartRepo: cartRepo}
}

func seedOrderCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()

	suffix := uuid.NewString()[:8]
	phone := "+15550001234"
	customer := &models.Customer{
		ID:           uuid.New(),
		FullName:     "Ada Lovelace",
		Username:     "ada-" + suffix,
		Email:        "ada-" + suffix + "@example.com",
		PasswordHash: "hash",
		Phone:        &phone,
		IsActive:     true,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedOrderProduct(t *testing.T, db *gorm.DB, sku string, price float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		Title:         "Product " + sku,
		SKU:           sku,
		Price:         decimal.NewFromFloat(price),
		TotalPrice:    decimal.NewFromFloat(price),
		StockQuantity: stock,
		Currency:      "USD",
		CategoryID:    uuid.New(),
		BrandID:       uuid.New(),
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedCartLine(t *testing.T, db *gorm.DB, line *models.CartLine) *models.CartLine {
	t.Helper()

	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	line.IsActive = true
	require.NoError(t, db.Create(line).Error)
	return line
}

func checkoutInput(lines ...*models.CartLine) CreateOrderInput {
	input := CreateOrderInput{
		Address: "1 Analytical Engine Way",
		City:    "London",
		State:   "LDN",
		ZipCode: "EC1",
		Country: "GB",
	}
	for _, line := range lines {
		input.Items = append(input.Items, OrderItemRef{CartID: line.ID})
	}
	return input
}

func requireAppError(t *testing.T, err error, code pkgerrors.Code) *pkgerrors.Error {
	t.Helper()

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code())
	return appErr
}

func TestCreateRegularOrder(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	product := seedOrderProduct(t, fx.db, "ORD-SKU-1", 19.99, 10)
	line := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID,
		ProductID:  product.ID,
		Quantity:   3,
		Type:       enums.CartLineTypeRegular,
	})

	order, err := fx.svc.Create(ctx, customer.ID, checkoutInput(line))
	require.NoError(t, err)

	require.Regexp(t, regexp.MustCompile(`^ORD-\d+-\d+$`), order.OrderNumber)
	require.Equal(t, enums.OrderStatusPending, order.Status)
	require.Equal(t, enums.OrderTypeRegular, order.OrderType)
	require.Equal(t, "Ada", order.FirstName)
	require.Equal(t, "Lovelace", order.LastName)
	require.Equal(t, customer.Email, order.Email)
	require.True(t, order.SubtotalAmount.Equal(decimal.NewFromFloat(59.97)))
	require.True(t, order.TotalAmount.Equal(order.SubtotalAmount))

	require.Len(t, order.Items, 1)
	require.Equal(t, enums.OrderItemStatusAccepted, order.Items[0].ItemStatus)
	require.Equal(t, product.SKU, order.Items[0].ProductSKU)

	// stock settled, cart hard-deleted
	var settled models.Product
	require.NoError(t, fx.db.First(&settled, "id = ?", product.ID).Error)
	require.Equal(t, 7, settled.StockQuantity)

	var lineCount int64
	require.NoError(t, fx.db.Model(&models.CartLine{}).
		Where("customer_id = ?", customer.ID).
		Count(&lineCount).Error)
	require.Zero(t, lineCount)
}

func TestCreateBulkOrderUsesOfferedPrice(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	product := seedOrderProduct(t, fx.db, "ORD-SKU-BULK", 20, 100)
	requested := decimal.NewFromFloat(15)
	offered := decimal.NewFromFloat(16.50)
	minQty := 50
	line := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID:            customer.ID,
		ProductID:             product.ID,
		Quantity:              50,
		Type:                  enums.CartLineTypeBulk,
		RequestedPricePerUnit: &requested,
		OfferedPricePerUnit:   &offered,
		BulkMinQuantity:       &minQty,
	})

	order, err := fx.svc.Create(ctx, customer.ID, checkoutInput(line))
	require.NoError(t, err)

	require.Equal(t, enums.OrderTypeBulk, order.OrderType)
	require.Len(t, order.Items, 1)
	require.Equal(t, enums.OrderItemStatusPending, order.Items[0].ItemStatus)
	require.True(t, order.Items[0].UnitPrice.Equal(offered))
	require.True(t, order.SubtotalAmount.Equal(decimal.NewFromFloat(825)))
}

func TestCreateOrdersOnlyReferencedLines(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	wanted := seedOrderProduct(t, fx.db, "ORD-SKU-SUBSET-A", 10, 10)
	kept := seedOrderProduct(t, fx.db, "ORD-SKU-SUBSET-B", 20, 10)
	wantedLine := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: wanted.ID, Quantity: 2,
		Type: enums.CartLineTypeRegular,
	})
	keptLine := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: kept.ID, Quantity: 1,
		Type: enums.CartLineTypeRegular,
	})

	order, err := fx.svc.Create(ctx, customer.ID, checkoutInput(wantedLine))
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	require.Equal(t, wanted.ID, order.Items[0].ProductID)

	// the unreferenced line and its stock are untouched
	var survivor models.CartLine
	require.NoError(t, fx.db.First(&survivor, "id = ?", keptLine.ID).Error)
	require.True(t, survivor.IsActive)

	var untouched models.Product
	require.NoError(t, fx.db.First(&untouched, "id = ?", kept.ID).Error)
	require.Equal(t, 10, untouched.StockQuantity)
}

func TestCreateRejectsDanglingCartReference(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	input := checkoutInput()
	input.Items = []OrderItemRef{{CartID: uuid.New()}}

	_, err := fx.svc.Create(ctx, customer.ID, input)
	appErr := requireAppError(t, err, pkgerrors.CodeNotFound)
	require.Contains(t, appErr.Message(), "not found")

	// soft-deleted lines are just as unreachable
	product := seedOrderProduct(t, fx.db, "ORD-SKU-DANGLE", 10, 10)
	line := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: product.ID, Quantity: 1,
		Type: enums.CartLineTypeRegular,
	})
	require.NoError(t, fx.db.Model(&models.CartLine{}).
		Where("id = ?", line.ID).
		UpdateColumn("is_active", false).Error)

	_, err = fx.svc.Create(ctx, customer.ID, checkoutInput(line))
	requireAppError(t, err, pkgerrors.CodeNotFound)
}

func TestCreateHonorsItemPriceOverrides(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	product := seedOrderProduct(t, fx.db, "ORD-SKU-OVERRIDE", 20, 100)
	stored := decimal.NewFromFloat(16.50)
	minQty := 50
	line := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID:          customer.ID,
		ProductID:           product.ID,
		Quantity:            50,
		Type:                enums.CartLineTypeBulk,
		OfferedPricePerUnit: &stored,
		BulkMinQuantity:     &minQty,
	})

	override := decimal.NewFromFloat(15)
	input := checkoutInput()
	input.Items = []OrderItemRef{{CartID: line.ID, OfferedPricePerUnit: &override}}

	order, err := fx.svc.Create(ctx, customer.ID, input)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	require.True(t, order.Items[0].UnitPrice.Equal(override))
	require.True(t, order.SubtotalAmount.Equal(decimal.NewFromInt(750)))
}

func TestCreateRejectsMixedCart(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	regular := seedOrderProduct(t, fx.db, "ORD-SKU-MIX-R", 5, 10)
	bulk := seedOrderProduct(t, fx.db, "ORD-SKU-MIX-B", 5, 100)
	offered := decimal.NewFromFloat(4)

	regularLine := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: regular.ID, Quantity: 1,
		Type: enums.CartLineTypeRegular,
	})
	bulkLine := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: bulk.ID, Quantity: 60,
		Type: enums.CartLineTypeBulk, OfferedPricePerUnit: &offered,
	})

	_, err := fx.svc.Create(ctx, customer.ID, checkoutInput(regularLine, bulkLine))
	appErr := requireAppError(t, err, pkgerrors.CodeValidation)
	require.Contains(t, appErr.Message(), "mixed item types")

	// referencing just the regular line keeps the mixed cart checkoutable
	order, err := fx.svc.Create(ctx, customer.ID, checkoutInput(regularLine))
	require.NoError(t, err)
	require.Equal(t, enums.OrderTypeRegular, order.OrderType)
	require.Len(t, order.Items, 1)

	var survivor models.CartLine
	require.NoError(t, fx.db.First(&survivor, "id = ?", bulkLine.ID).Error)
	require.True(t, survivor.IsActive)
}

func TestCreateRejectsEmptyCartAndShortStock(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	_, err := fx.svc.Create(ctx, customer.ID, checkoutInput())
	requireAppError(t, err, pkgerrors.CodeValidation)

	product := seedOrderProduct(t, fx.db, "ORD-SKU-SHORT", 10, 2)
	line := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: product.ID, Quantity: 5,
		Type: enums.CartLineTypeRegular,
	})

	_, err = fx.svc.Create(ctx, customer.ID, checkoutInput(line))
	appErr := requireAppError(t, err, pkgerrors.CodeValidation)
	require.Contains(t, appErr.Message(), product.Title)

	// nothing was persisted or settled
	var orderCount int64
	require.NoError(t, fx.db.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)
}

func TestCreateRejectsInactiveProduct(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	product := seedOrderProduct(t, fx.db, "ORD-SKU-INACTIVE", 10, 10)
	require.NoError(t, fx.db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("is_active", false).Error)

	line := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: product.ID, Quantity: 1,
		Type: enums.CartLineTypeRegular,
	})

	_, err := fx.svc.Create(ctx, customer.ID, checkoutInput(line))
	appErr := requireAppError(t, err, pkgerrors.CodeValidation)
	require.Contains(t, appErr.Message(), "no longer available")
}

func TestCreateAppliesPromoAndIncrementsUsage(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	product := seedOrderProduct(t, fx.db, "ORD-SKU-PROMO", 100, 10)
	line := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: product.ID, Quantity: 1,
		Type: enums.CartLineTypeRegular,
	})

	maxDiscount := decimal.NewFromInt(15)
	promo := &models.PromoCode{
		ID:                uuid.New(),
		Code:              "ORDERS10",
		DiscountType:      enums.DiscountTypePercentage,
		DiscountValue:     decimal.NewFromInt(10),
		MaxDiscountAmount: &maxDiscount,
		IsActive:          true,
	}
	require.NoError(t, fx.db.Create(promo).Error)

	input := checkoutInput(line)
	input.PromoCode = "orders10"
	order, err := fx.svc.Create(ctx, customer.ID, input)
	require.NoError(t, err)

	require.True(t, order.DiscountAmount.Equal(decimal.NewFromInt(10)))
	require.True(t, order.TotalAmount.Equal(decimal.NewFromInt(90)))

	var used models.PromoCode
	require.NoError(t, fx.db.First(&used, "id = ?", promo.ID).Error)
	require.Equal(t, 1, used.UsedCount)
}

func TestCreateAbortsOnPromoFailure(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	product := seedOrderProduct(t, fx.db, "ORD-SKU-BADPROMO", 10, 10)
	line := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: product.ID, Quantity: 1,
		Type: enums.CartLineTypeRegular,
	})

	input := checkoutInput(line)
	input.PromoCode = "DOES-NOT-EXIST"
	_, err := fx.svc.Create(ctx, customer.ID, input)
	requireAppError(t, err, pkgerrors.CodeValidation)

	var orderCount int64
	require.NoError(t, fx.db.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)

	// the cart survives an aborted checkout
	var lineCount int64
	require.NoError(t, fx.db.Model(&models.CartLine{}).
		Where("customer_id = ? AND is_active = ?", customer.ID, true).
		Count(&lineCount).Error)
	require.Equal(t, int64(1), lineCount)
}

func TestCreateSettlementSkipsOversoldLines(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	// two lines for the same product pass validation individually but the
	// second decrement finds the stock already consumed
	customer := seedOrderCustomer(t, fx.db)
	product := seedOrderProduct(t, fx.db, "ORD-SKU-RACE", 10, 4)
	first := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: product.ID, Quantity: 3,
		Type: enums.CartLineTypeRegular,
	})
	second := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: product.ID, Quantity: 3,
		Type: enums.CartLineTypeRegular,
	})

	order, err := fx.svc.Create(ctx, customer.ID, checkoutInput(first, second))
	require.NoError(t, err, "settlement shortfalls must not fail the checkout")
	require.Len(t, order.Items, 2)

	var settled models.Product
	require.NoError(t, fx.db.First(&settled, "id = ?", product.ID).Error)
	require.Equal(t, 1, settled.StockQuantity, "only the first line should have settled")
}

func TestListMineNewestFirst(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		order := &models.Order{
			ID:             uuid.New(),
			OrderNumber:    generateOrderNumber(base.Add(time.Duration(i) * time.Minute)),
			UserID:         customer.ID,
			FirstName:      "Ada",
			LastName:       "Lovelace",
			Email:          customer.Email,
			Address:        "a", City: "c", State: "s", ZipCode: "z", Country: "GB",
			SubtotalAmount: decimal.NewFromInt(10),
			TotalAmount:    decimal.NewFromInt(10),
			Status:         enums.OrderStatusPending,
			OrderType:      enums.OrderTypeRegular,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, fx.db.Create(order).Error)
	}

	dtos, meta, err := fx.svc.ListMine(ctx, customer.ID, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	require.Equal(t, int64(3), meta.Total)
	require.Equal(t, 2, meta.TotalPages)
	require.True(t, dtos[0].CreatedAt.After(dtos[1].CreatedAt))
}

func TestGetScopedToOwner(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	product := seedOrderProduct(t, fx.db, "ORD-SKU-GET", 10, 10)
	line := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: product.ID, Quantity: 1,
		Type: enums.CartLineTypeRegular,
	})
	created, err := fx.svc.Create(ctx, customer.ID, checkoutInput(line))
	require.NoError(t, err)

	fetched, err := fx.svc.Get(ctx, created.ID, customer.ID)
	require.NoError(t, err)
	require.Equal(t, created.OrderNumber, fetched.OrderNumber)
	require.Len(t, fetched.Items, 1)

	_, err = fx.svc.Get(ctx, created.ID, uuid.New())
	requireAppError(t, err, pkgerrors.CodeNotFound)
}

func TestCancelOnlyPendingOrders(t *testing.T) {
	fx := newOrdersFixture(t)
	ctx := context.Background()

	customer := seedOrderCustomer(t, fx.db)
	product := seedOrderProduct(t, fx.db, "ORD-SKU-CANCEL", 10, 10)
	line := seedCartLine(t, fx.db, &models.CartLine{
		CustomerID: customer.ID, ProductID: product.ID, Quantity: 1,
		Type: enums.CartLineTypeRegular,
	})
	created, err := fx.svc.Create(ctx, customer.ID, checkoutInput(line))
	require.NoError(t, err)

	cancelled, err := fx.svc.Cancel(ctx, created.ID, customer.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusCancelled, cancelled.Status)

	_, err = fx.svc.Cancel(ctx, created.ID, customer.ID)
	appErr := requireAppError(t, err, pkgerrors.CodeValidation)
	require.Equal(t, "only pending orders can be cancelled", appErr.Message())
}
