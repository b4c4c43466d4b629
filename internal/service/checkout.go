package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/grishakov/retail-platform/internal/events"
	"github.com/grishakov/retail-platform/internal/logging"
	"github.com/grishakov/retail-platform/internal/mailer"
	"github.com/grishakov/retail-platform/internal/models"
	"github.com/grishakov/retail-platform/internal/repo"
)

const orderNumberAttempts = 5

type CheckoutService struct {
	Repo     *repo.GormRepo
	Producer events.Publisher
	Mail     *mailer.Dispatcher
}

type CheckoutInput struct {
	// CartItemIDs selects which lines to purchase; empty means the whole cart.
	CartItemIDs     []uint
	ShippingAddress string
	Phone           string
	Email           string
	PaymentMethod   models.PaymentMethod
}

type CheckoutResult struct {
	Order *models.Order      `json:"order"`
	Items []models.OrderItem `json:"items"`
}

func (in *CheckoutInput) validate() error {
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return fmt.Errorf("shipping address required: %w", ErrValidation)
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return fmt.Errorf("invalid email: %w", ErrValidation)
		}
	}
	return nil
}

// NewOrderNumber generates the external order identifier: "ORD" plus 7
// random digits.
func NewOrderNumber() string {
	digits := make([]byte, 7)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return "ORD" + string(digits)
}

func (s *CheckoutService) uniqueOrderNumber(ctx context.Context) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := NewOrderNumber()
		exists, err := s.Repo.OrderNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique order number")
}

// Checkout converts the selected cart lines into an immutable order. Stock
// check, order + item creation, stock decrement and cart-line removal commit
// as one transaction; any line failing the stock check aborts the whole
// operation with nothing persisted.
func (s *CheckoutService) Checkout(ctx context.Context, user *models.User, in CheckoutInput) (*CheckoutResult, error) {
	l := logging.FromContext(ctx).With("svc", "checkout", "user_id", user.ID)

	if err := Authorize(user.Role, OpCheckout); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	confirmer, err := ConfirmerFor(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if len(in.CartItemIDs) == 0 {
		items, err = s.Repo.GetCartItems(ctx, cart.ID)
	} else {
		items, err = s.Repo.GetCartItemsByIDs(ctx, cart.ID, in.CartItemIDs)
	}
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no items selected for checkout: %w", ErrValidation)
	}

	var (
		total      = decimal.Zero
		sellerID   uint
		orderItems = make([]models.OrderItem, 0, len(items))
		itemIDs    = make([]uint, 0, len(items))
	)
	for _, it := range items {
		p, err := s.Repo.GetActiveProduct(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("product %d no longer available: %w", it.ProductID, ErrNotFound)
			}
			return nil, err
		}
		if sellerID == 0 {
			sellerID = p.SellerID
		} else if sellerID != p.SellerID {
			return nil, fmt.Errorf("selected items span multiple shops, check out per shop: %w", ErrValidation)
		}
		if p.StockQuantity < it.Quantity {
			return nil, fmt.Errorf("%w: %q requested %d, available %d",
				ErrInsufficientStock, p.Name, it.Quantity, p.StockQuantity)
		}

		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		orderItems = append(orderItems, models.OrderItem{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			Price:     p.Price,
		})
		itemIDs = append(itemIDs, it.ID)
	}

	number, err := s.uniqueOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:     number,
		CustomerID:      user.ID,
		SellerID:        sellerID,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: in.ShippingAddress,
		CustomerPhone:   in.Phone,
		CustomerEmail:   in.Email,
	}
	if err := confirmer.Begin(ctx, order); err != nil {
		return nil, err
	}

	if err := s.Repo.PlaceOrder(ctx, order, orderItems, itemIDs, cart.ID); err != nil {
		var stockErr *repo.InsufficientStockError
		if errors.As(err, &stockErr) {
			// A concurrent checkout won the stock between our check and the
			// decrement; same contract as the pre-check failure.
			return nil, fmt.Errorf("%w: %q requested %d, available %d",
				ErrInsufficientStock, stockErr.ProductName, stockErr.Requested, stockErr.Available)
		}
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":        "order_created",
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"userID":      user.ID,
		"total":       order.TotalAmount.String(),
	})

	if order.CustomerEmail != "" {
		s.Mail.Schedule(order.CustomerEmail, "Order confirmation",
			fmt.Sprintf("Thanks! Your order %s totalling %s has been received.",
				order.OrderNumber, order.TotalAmount.StringFixed(2)))
	}

	l.Info("order_placed", "order_id", order.ID, "order_number", order.OrderNumber,
		"total", order.TotalAmount.String(), "payment_method", order.PaymentMethod)
	return &CheckoutResult{Order: order, Items: orderItems}, nil
}

// ConfirmPayment settles the payment session on a pending order through the
// method's Confirmer.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, user *models.User, orderID uint) (*models.Order, error) {
	if err := Authorize(user.Role, OpCheckout); err != nil {
		return nil, err
	}

	order, err := s.customerOrder(ctx, user, orderID)
	if err != nil {
		return nil, err
	}

	confirmer, err := ConfirmerFor(order.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if err := confirmer.Confirm(ctx, order); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type": "payment_confirmed", "orderID": order.ID, "userID": user.ID,
	})
	return order, nil
}

// Cancel is permitted only while the order is pending and a payment session
// exists.
func (s *CheckoutService) Cancel(ctx context.Context, user *models.User, orderID uint) (*models.Order, error) {
	if err := Authorize(user.Role, OpCancelOrder); err != nil {
		return nil, err
	}

	order, err := s.customerOrder(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending || order.PaymentSession == "" {
		return nil, fmt.Errorf("order %s cannot be cancelled: %w", order.OrderNumber, ErrValidation)
	}

	order.Status = models.OrderStatusCancelled
	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type": "order_cancelled", "orderID": order.ID, "userID": user.ID,
	})
	return order, nil
}

// AdvanceStatus moves a seller's order along the status machine.
func (s *CheckoutService) AdvanceStatus(ctx context.Context, seller *models.User, orderID uint, next models.OrderStatus) (*models.Order, error) {
	if err := Authorize(seller.Role, OpAdvanceOrder); err != nil {
		return nil, err
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	if order.SellerID != seller.ID {
		return nil, fmt.Errorf("order belongs to another shop: %w", ErrAccessDenied)
	}
	if !order.CanTransition(next) {
		return nil, fmt.Errorf("cannot move order %s from %s to %s: %w",
			order.OrderNumber, order.Status, next, ErrValidation)
	}

	order.Status = next
	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, user *models.User, orderID uint) (*CheckoutResult, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	if order.CustomerID != user.ID && order.SellerID != user.ID {
		return nil, fmt.Errorf("order belongs to another account: %w", ErrAccessDenied)
	}

	items, err := s.Repo.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{Order: order, Items: items}, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, user *models.User, offset, limit int) ([]models.Order, error) {
	if user.IsSeller() {
		return s.Repo.ListSellerOrders(ctx, user.ID, offset, limit)
	}
	return s.Repo.ListCustomerOrders(ctx, user.ID, offset, limit)
}

func (s *CheckoutService) customerOrder(ctx context.Context, user *models.User, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	if order.CustomerID != user.ID {
		return nil, fmt.Errorf("order belongs to another account: %w", ErrAccessDenied)
	}
	return order, nil
}

func (s *CheckoutService) publish(ctx context.Context, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["orderID"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
