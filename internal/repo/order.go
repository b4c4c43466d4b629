package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/grishakov/retail-platform/internal/models"
)

// InsufficientStockError names the offending product and what was actually
// available when the decrement was refused.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   uint
	Available   uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// PlaceOrder commits the order, its item snapshots, the stock decrements and
// the removal of the purchased cart lines as one transaction. The decrement
// is a compare-and-swap: UPDATE ... SET stock_quantity = stock_quantity - q
// WHERE stock_quantity >= q, checked via RowsAffected, so concurrent
// checkouts cannot race past the stock check and oversubscribe.
func (r *GormRepo) PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem, cartItemIDs []uint, cartID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", items[i].ProductID, items[i].Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", items[i].Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var p models.Product
				if err := tx.First(&p, items[i].ProductID).Error; err != nil {
					return err
				}
				return &InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Requested:   items[i].Quantity,
					Available:   p.StockQuantity,
				}
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		if len(cartItemIDs) > 0 {
			if err := tx.Where("cart_id = ? AND id IN ?", cartID, cartItemIDs).
				Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepo) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListCustomerOrders(ctx context.Context, customerID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListSellerOrders(ctx context.Context, sellerID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) SaveOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Save(order).Error
}
