package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/grishakov/retail-platform/internal/logging"
	"github.com/grishakov/retail-platform/internal/models"
	"github.com/grishakov/retail-platform/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

// CartView is the cart with live prices: line totals use the product's
// current price, in contrast with the snapshot an OrderItem takes.
type CartView struct {
	Cart  models.Cart     `json:"cart"`
	Lines []CartLineView  `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type CartLineView struct {
	Item      models.CartItem `json:"item"`
	Product   models.Product  `json:"product"`
	LineTotal decimal.Decimal `json:"line_total"`
}

func (s *CartService) GetCart(ctx context.Context, user *models.User) (*CartView, error) {
	if err := Authorize(user.Role, OpManageCart); err != nil {
		return nil, err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	lines, err := s.Repo.GetCartLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Cart: *cart, Total: decimal.Zero, Lines: make([]CartLineView, 0, len(lines))}
	for _, ln := range lines {
		lineTotal := ln.Product.Price.Mul(decimal.NewFromInt(int64(ln.Item.Quantity)))
		view.Lines = append(view.Lines, CartLineView{Item: ln.Item, Product: ln.Product, LineTotal: lineTotal})
		view.Total = view.Total.Add(lineTotal)
	}
	return view, nil
}

// AddToCart inserts a line at quantity 1 or increments the existing line for
// the product: repeated adds never duplicate rows.
func (s *CartService) AddToCart(ctx context.Context, user *models.User, productID, quantity uint) (*models.CartItem, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", user.ID, "product_id", productID)

	if err := Authorize(user.Role, OpManageCart); err != nil {
		return nil, err
	}
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.Repo.GetActiveProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: quantity}
	if err := s.Repo.AddCartItem(ctx, item); err != nil {
		return nil, err
	}

	l.Info("cart_item_added", "quantity", item.Quantity)
	return item, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, user *models.User, itemID uint) error {
	if err := Authorize(user.Role, OpManageCart); err != nil {
		return err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, user.ID)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteCartItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
		}
		return err
	}
	return nil
}

// SetQuantity clamps to the [1, stock] contract: exceeding the product's
// stock fails with the available quantity and leaves the line unchanged;
// anything below 1 deletes the line.
func (s *CartService) SetQuantity(ctx context.Context, user *models.User, itemID uint, quantity int) (*models.CartItem, error) {
	if err := Authorize(user.Role, OpManageCart); err != nil {
		return nil, err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	item, err := s.Repo.GetCartItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
		}
		return nil, err
	}

	if quantity < 1 {
		if err := s.Repo.DeleteCartItem(ctx, cart.ID, itemID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	product, err := s.Repo.GetProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if uint(quantity) > product.StockQuantity {
		return nil, fmt.Errorf("only %d of %q available: %w",
			product.StockQuantity, product.Name, ErrStockExceeded)
	}

	return s.Repo.SetCartItemQuantity(ctx, cart.ID, itemID, uint(quantity))
}
