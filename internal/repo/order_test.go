package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/grishakov/retail-platform/internal/db"
	"github.com/grishakov/retail-platform/internal/models"
)

func newTestDB(t *testing.T) *GormRepo {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	return &GormRepo{DB: gdb}
}

func seedProduct(t *testing.T, r *GormRepo, name string, stock uint) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:          name,
		Description:   name,
		Price:         decimal.RequireFromString("10.00"),
		SellerID:      1,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, r.DB.Create(p).Error)
	return p
}

func TestPlaceOrder_DecrementsStock(t *testing.T) {
	t.Parallel()

	r := newTestDB(t)
	ctx := context.Background()

	a := seedProduct(t, r, "A", 5)
	b := seedProduct(t, r, "B", 1)

	cart, err := r.GetOrCreateCart(ctx, 1)
	require.NoError(t, err)
	lineA := &models.CartItem{CartID: cart.ID, ProductID: a.ID, Quantity: 2}
	lineB := &models.CartItem{CartID: cart.ID, ProductID: b.ID, Quantity: 1}
	require.NoError(t, r.AddCartItem(ctx, lineA))
	require.NoError(t, r.AddCartItem(ctx, lineB))

	order := &models.Order{
		OrderNumber:     "ORD0000001",
		CustomerID:      1,
		SellerID:        1,
		TotalAmount:     decimal.RequireFromString("25.00"),
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: "1 Main St",
	}
	items := []models.OrderItem{
		{ProductID: a.ID, Quantity: 2, Price: a.Price},
		{ProductID: b.ID, Quantity: 1, Price: b.Price},
	}
	require.NoError(t, r.PlaceOrder(ctx, order, items, []uint{lineA.ID, lineB.ID}, cart.ID))
	require.NotZero(t, order.ID)

	var pa, pb models.Product
	require.NoError(t, r.DB.First(&pa, a.ID).Error)
	require.NoError(t, r.DB.First(&pb, b.ID).Error)
	assert.EqualValues(t, 3, pa.StockQuantity)
	assert.EqualValues(t, 0, pb.StockQuantity)

	got, err := r.GetOrderItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	remaining, err := r.GetCartItems(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestPlaceOrder_RefusedDecrementRollsBack(t *testing.T) {
	t.Parallel()

	r := newTestDB(t)
	ctx := context.Background()

	a := seedProduct(t, r, "A", 5)
	b := seedProduct(t, r, "B", 1)

	order := &models.Order{
		OrderNumber:     "ORD0000002",
		CustomerID:      1,
		SellerID:        1,
		TotalAmount:     decimal.RequireFromString("40.00"),
		ShippingAddress: "1 Main St",
	}
	items := []models.OrderItem{
		{ProductID: a.ID, Quantity: 2, Price: a.Price},
		{ProductID: b.ID, Quantity: 2, Price: b.Price}, // stock is 1
	}
	err := r.PlaceOrder(ctx, order, items, nil, 0)
	require.Error(t, err)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, b.ID, stockErr.ProductID)
	assert.Equal(t, "B", stockErr.ProductName)
	assert.EqualValues(t, 2, stockErr.Requested)
	assert.EqualValues(t, 1, stockErr.Available)

	// A's decrement is rolled back along with everything else
	var pa models.Product
	require.NoError(t, r.DB.First(&pa, a.ID).Error)
	assert.EqualValues(t, 5, pa.StockQuantity)

	var orders int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 0, orders)
}

func TestOrderNumberExists(t *testing.T) {
	t.Parallel()

	r := newTestDB(t)
	ctx := context.Background()

	exists, err := r.OrderNumberExists(ctx, "ORD1234567")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, r.DB.Create(&models.Order{
		OrderNumber:     "ORD1234567",
		CustomerID:      1,
		SellerID:        1,
		ShippingAddress: "1 Main St",
	}).Error)

	exists, err = r.OrderNumberExists(ctx, "ORD1234567")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeleteOTP_SingleWinner(t *testing.T) {
	t.Parallel()

	r := newTestDB(t)
	ctx := context.Background()

	rec := &models.OTP{Email: "a@b.com", Code: "123456", Purpose: models.OTPPurposeRegister}
	require.NoError(t, r.CreateOTP(ctx, rec))

	won, err := r.DeleteOTP(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = r.DeleteOTP(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, won)
}

func TestCreateUserIfNotExists(t *testing.T) {
	t.Parallel()

	r := newTestDB(t)
	ctx := context.Background()

	u := &models.User{Username: "grisha", Email: "grisha@example.com", PasswordHash: "x", Role: models.RoleBuyer}
	require.NoError(t, r.CreateUserIfNotExists(ctx, u))

	dupEmail := &models.User{Username: "other", Email: "grisha@example.com", PasswordHash: "x", Role: models.RoleBuyer}
	assert.True(t, errors.Is(r.CreateUserIfNotExists(ctx, dupEmail), ErrDuplicate))

	dupName := &models.User{Username: "grisha", Email: "other@example.com", PasswordHash: "x", Role: models.RoleBuyer}
	assert.True(t, errors.Is(r.CreateUserIfNotExists(ctx, dupName), ErrDuplicate))
}
