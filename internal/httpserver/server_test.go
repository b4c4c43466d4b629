package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grishakov/retail-platform/internal/models"
	"github.com/grishakov/retail-platform/internal/repo"
)

func seedProduct(t *testing.T, r *repo.GormRepo, sellerID uint, name, price string, stock uint) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:          name,
		Description:   name,
		Price:         decimal.RequireFromString(price),
		SellerID:      sellerID,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, r.DB.Create(p).Error)
	return p
}

func TestRegistrationFlow(t *testing.T) {
	t.Parallel()

	e, r := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/register",
		`{"username":"grisha","email":"grisha@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	pending := rec.Result().Cookies()
	require.NotEmpty(t, pending)

	// the code travels by email; the test reads it from the table
	var otp models.OTP
	require.NoError(t, r.DB.Where("email = ?", "grisha@example.com").First(&otp).Error)

	rec = doJSON(e, http.MethodPost, "/api/v1/register/confirm",
		`{"otp":"`+otp.Code+`"}`, pending)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "grisha", user.Username)
	assert.Equal(t, models.RoleBuyer, user.Role)

	// confirming without the pending cookie is a 400
	rec = doJSON(e, http.MethodPost, "/api/v1/register/confirm", `{"otp":"000000"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	cookies := login(t, e, "grisha")
	rec = doJSON(e, http.MethodGet, "/api/v1/cart", "", cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	t.Parallel()

	e, r := newTestServer(t)

	seller := seedUser(t, r, "seller", "seller@example.com", models.RoleSeller)
	seedUser(t, r, "buyer", "buyer@example.com", models.RoleBuyer)
	p := seedProduct(t, r, seller.ID, "Widget", "10.00", 5)

	cookies := login(t, e, "buyer")

	rec := doJSON(e, http.MethodPost, "/api/v1/cart",
		`{"product_id":`+itoa(p.ID)+`,"quantity":2}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/api/v1/checkout",
		`{"shipping_address":"1 Main St","payment_method":"cod"}`, cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Regexp(t, `^ORD\d{7}$`, res.Order.OrderNumber)
	assert.True(t, res.Order.TotalAmount.Equal(decimal.RequireFromString("20.00")),
		"got total %s", res.Order.TotalAmount)

	// overdrawing the remaining stock is a 409
	rec = doJSON(e, http.MethodPost, "/api/v1/cart",
		`{"product_id":`+itoa(p.ID)+`,"quantity":4}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(e, http.MethodPost, "/api/v1/checkout",
		`{"shipping_address":"1 Main St","payment_method":"cod"}`, cookies)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestSellerRoutesGatedByRole(t *testing.T) {
	t.Parallel()

	e, r := newTestServer(t)

	seedUser(t, r, "buyer", "buyer@example.com", models.RoleBuyer)
	cookies := login(t, e, "buyer")

	rec := doJSON(e, http.MethodPost, "/api/v1/seller/shop",
		`{"name":"Best Store Mart","established_year":2025}`, cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/seller/products",
		`{"name":"Widget","description":"d","price":"10.00","stock_quantity":1}`, cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPublicCatalog(t *testing.T) {
	t.Parallel()

	e, r := newTestServer(t)

	seller := seedUser(t, r, "seller", "seller@example.com", models.RoleSeller)
	seedProduct(t, r, seller.ID, "Widget", "10.00", 5)

	rec := doJSON(e, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Widget")

	rec = doJSON(e, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
