package transport

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

type ConfirmRegistrationRequest struct {
	OTP string `json:"otp"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	CartItemIDs     []uint `json:"cart_item_ids"`
	ShippingAddress string `json:"shipping_address"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	PaymentMethod   string `json:"payment_method"`
}

type AdvanceOrderRequest struct {
	Status string `json:"status"`
}

type ProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	CategoryID    uint            `json:"category_id"`
	StockQuantity uint            `json:"stock_quantity"`
	IsActive      *bool           `json:"is_active"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateShopRequest struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	EstablishedYear int    `json:"established_year"`
}
