package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/grishakov/retail-platform/internal/events"
	"github.com/grishakov/retail-platform/internal/logging"
	"github.com/grishakov/retail-platform/internal/models"
	"github.com/grishakov/retail-platform/internal/repo"
	"github.com/grishakov/retail-platform/internal/search"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Indexer  search.Indexer
	Producer events.Publisher
}

type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	Image         string
	CategoryID    uint
	StockQuantity uint
	IsActive      *bool
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("product name required: %w", ErrValidation)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("price must be positive: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, seller *models.User, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product", "seller_id", seller.ID)

	if err := Authorize(seller.Role, OpManageCatalog); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		Image:         in.Image,
		SellerID:      seller.ID,
		CategoryID:    in.CategoryID,
		StockQuantity: in.StockQuantity,
		IsActive:      true,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	if err := s.Indexer.IndexProduct(ctx, p); err != nil {
		l.Warn("index_failed", "product_id", p.ID, "error", err)
	}
	s.publish(ctx, map[string]any{"type": "product_created", "productID": p.ID, "sellerID": seller.ID})

	l.Info("product_created", "product_id", p.ID)
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, seller *models.User, id uint, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update_product", "seller_id", seller.ID, "product_id", id)

	if err := Authorize(seller.Role, OpManageCatalog); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if p.SellerID != seller.ID {
		return nil, fmt.Errorf("product belongs to another seller: %w", ErrAccessDenied)
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.CategoryID = in.CategoryID
	p.StockQuantity = in.StockQuantity
	if in.Image != "" {
		p.Image = in.Image
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}

	if err := s.Indexer.IndexProduct(ctx, p); err != nil {
		l.Warn("index_failed", "product_id", p.ID, "error", err)
	}
	s.publish(ctx, map[string]any{"type": "product_updated", "productID": p.ID, "sellerID": seller.ID})

	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, seller *models.User, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_product", "seller_id", seller.ID, "product_id", id)

	if err := Authorize(seller.Role, OpManageCatalog); err != nil {
		return err
	}

	if err := s.Repo.DeleteProduct(ctx, seller.ID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return err
	}

	if err := s.Indexer.DeleteProduct(ctx, id); err != nil {
		l.Warn("index_delete_failed", "product_id", id, "error", err)
	}
	s.publish(ctx, map[string]any{"type": "product_deleted", "productID": id, "sellerID": seller.ID})

	return nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetActiveProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) ListActiveProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListActiveProducts(ctx, offset, limit)
}

func (s *CatalogService) ListSellerProducts(ctx context.Context, seller *models.User) ([]models.Product, error) {
	if err := Authorize(seller.Role, OpManageCatalog); err != nil {
		return nil, err
	}
	return s.Repo.ListSellerProducts(ctx, seller.ID)
}

func (s *CatalogService) SellerDashboard(ctx context.Context, seller *models.User) (*repo.SellerStats, error) {
	if err := Authorize(seller.Role, OpManageCatalog); err != nil {
		return nil, err
	}
	return s.Repo.GetSellerStats(ctx, seller.ID)
}

func (s *CatalogService) CreateCategory(ctx context.Context, user *models.User, name, description string) (*models.Category, error) {
	if err := Authorize(user.Role, OpManageCatalog); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("category name required: %w", ErrValidation)
	}

	cat := &models.Category{Name: name, Description: description}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) publish(ctx context.Context, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
