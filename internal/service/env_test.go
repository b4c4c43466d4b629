package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/grishakov/retail-platform/internal/db"
	"github.com/grishakov/retail-platform/internal/hash"
	"github.com/grishakov/retail-platform/internal/mailer"
	"github.com/grishakov/retail-platform/internal/models"
	"github.com/grishakov/retail-platform/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// a single connection keeps every session on the same in-memory db
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	return &repo.GormRepo{DB: gdb}
}

type captureSender struct {
	sent []capturedMail
}

type capturedMail struct {
	To      string
	Subject string
	Body    string
}

func (s *captureSender) Send(to, subject, body string) error {
	s.sent = append(s.sent, capturedMail{To: to, Subject: subject, Body: body})
	return nil
}

func newTestMailer() *mailer.Dispatcher {
	d := mailer.NewDispatcher(&captureSender{}, slog.Default())
	d.Delay = 0
	return d
}

func createUser(t *testing.T, r *repo.GormRepo, username, email string, role models.Role) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("password123")
	require.NoError(t, err)

	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(t, r.DB.Create(u).Error)
	return u
}

func createProduct(t *testing.T, r *repo.GormRepo, sellerID uint, name string, price string, stock uint) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:          name,
		Description:   name + " description",
		Price:         decimal.RequireFromString(price),
		SellerID:      sellerID,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, r.DB.Create(p).Error)
	return p
}

func addCartLine(t *testing.T, r *repo.GormRepo, userID, productID, quantity uint) *models.CartItem {
	t.Helper()

	cart, err := r.GetOrCreateCart(context.Background(), userID)
	require.NoError(t, err)

	item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
	require.NoError(t, r.AddCartItem(context.Background(), item))
	return item
}
