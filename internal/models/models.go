package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleStaff  Role = "staff"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsBuyer() bool  { return u.Role == RoleBuyer }
func (u *User) IsSeller() bool { return u.Role == RoleSeller }

type OTPPurpose string

const (
	OTPPurposeRegister OTPPurpose = "register"
	OTPPurposeReset    OTPPurpose = "reset"
)

// OTP rows are single-use: consumed on successful validation or left to
// expire. UserID is nil for register codes, the user row does not exist yet.
type OTP struct {
	ID        uint       `gorm:"primaryKey"       json:"id"`
	UserID    *uint      `gorm:"index"            json:"user_id"`
	Email     string     `gorm:"index;not null"   json:"email"`
	Code      string     `gorm:"unique;not null"  json:"code"`
	Purpose   OTPPurpose `gorm:"type:varchar(20);not null" json:"purpose"`
	CreatedAt time.Time  `json:"created_at"`
}

type Shop struct {
	ID              uint      `gorm:"primaryKey"        json:"id"`
	AdminUserID     uint      `gorm:"uniqueIndex;not null" json:"admin_user_id"`
	Name            string    `gorm:"not null"          json:"name"`
	Code            string    `gorm:"unique;not null"   json:"code"`
	Slug            string    `gorm:"unique;not null"   json:"slug"`
	Address         string    `json:"address"`
	EstablishedYear int       `json:"established_year"`
	CreatedAt       time.Time `json:"created_at"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey"      json:"id"`
	Name        string `gorm:"unique;not null" json:"name"`
	Description string `json:"description"`
}

type Product struct {
	ID            uint            `gorm:"primaryKey"                json:"id"`
	Name          string          `gorm:"not null"                  json:"name"`
	Description   string          `gorm:"not null"                  json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image         string          `json:"image"`
	SellerID      uint            `gorm:"index;not null"            json:"seller_id"`
	CategoryID    uint            `gorm:"index"                     json:"category_id"`
	StockQuantity uint            `gorm:"not null;default:0"        json:"stock_quantity"`
	IsActive      bool            `gorm:"default:true"              json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (p *Product) IsInStock() bool { return p.StockQuantity > 0 }

type Cart struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// At most one CartItem per (cart, product): repeated add-to-cart increments
// quantity instead of duplicating rows.
type CartItem struct {
	ID        uint `gorm:"primaryKey"                        json:"id"`
	CartID    uint `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uint `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"        json:"quantity"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
)

type Order struct {
	ID              uint            `gorm:"primaryKey"          json:"id"`
	OrderNumber     string          `gorm:"unique;not null"     json:"order_number"`
	CustomerID      uint            `gorm:"index;not null"      json:"customer_id"`
	SellerID        uint            `gorm:"index;not null"      json:"seller_id"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(20)"    json:"payment_method"`
	PaymentSession  string          `json:"payment_session,omitempty"`
	ShippingAddress string          `gorm:"not null"            json:"shipping_address"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerEmail   string          `json:"customer_email"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CanTransition reports whether the status machine permits moving to next.
// pending -> confirmed -> shipped -> delivered, or pending -> cancelled;
// delivered and cancelled are terminal.
func (o *Order) CanTransition(next OrderStatus) bool {
	switch o.Status {
	case OrderStatusPending:
		return next == OrderStatusConfirmed || next == OrderStatusCancelled
	case OrderStatusConfirmed:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

// OrderItem snapshots the product price at order time, decoupling the order
// from later catalog changes.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"     json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"not null"       json:"product_id"`
	Quantity  uint            `gorm:"default:1;check:quantity>0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (i *OrderItem) ItemTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
