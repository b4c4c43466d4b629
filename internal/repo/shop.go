package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/grishakov/retail-platform/internal/models"
)

func (r *GormRepo) CreateShop(ctx context.Context, shop *models.Shop) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Shop
		err := tx.Where("admin_user_id = ?", shop.AdminUserID).First(&existing).Error
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// the slug/code unique indexes are the last line of defense against
		// concurrent creates that both passed ShopSlugExists
		if err := tx.Create(shop).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (r *GormRepo) GetShopByAdmin(ctx context.Context, adminUserID uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.DB.WithContext(ctx).Where("admin_user_id = ?", adminUserID).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *GormRepo) GetShopBySlug(ctx context.Context, slug string) (*models.Shop, error) {
	var shop models.Shop
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *GormRepo) ShopSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Shop{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
