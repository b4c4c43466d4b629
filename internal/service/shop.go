package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/grishakov/retail-platform/internal/logging"
	"github.com/grishakov/retail-platform/internal/models"
	"github.com/grishakov/retail-platform/internal/repo"
)

const shopCodeMaxLen = 10

type ShopService struct {
	Repo *repo.GormRepo
}

type CreateShopInput struct {
	Name            string
	Address         string
	EstablishedYear int
}

// ShopCode builds the code from the initials of the name plus the
// establishment year: "Best Store Mart", 2025 -> "BSM-2025". Uppercased and
// truncated to 10 characters.
func ShopCode(name string, year int) string {
	var initials strings.Builder
	for _, word := range strings.Fields(name) {
		initials.WriteRune([]rune(word)[0])
	}
	code := strings.ToUpper(fmt.Sprintf("%s-%04d", initials.String(), year))
	if runes := []rune(code); len(runes) > shopCodeMaxLen {
		code = string(runes[:shopCodeMaxLen])
	}
	return code
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// uniqueSlug resolves collisions with a numeric suffix: best-store-mart,
// best-store-mart-2, best-store-mart-3, ...
func (s *ShopService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	slug := base
	for n := 2; ; n++ {
		exists, err := s.Repo.ShopSlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

func (s *ShopService) CreateShop(ctx context.Context, admin *models.User, in CreateShopInput) (*models.Shop, error) {
	l := logging.FromContext(ctx).With("svc", "shop.create", "admin_id", admin.ID)

	if err := Authorize(admin.Role, OpManageShop); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("shop name required: %w", ErrValidation)
	}
	if in.EstablishedYear < 1000 || in.EstablishedYear > 9999 {
		return nil, fmt.Errorf("establishment year must be 4 digits: %w", ErrValidation)
	}

	slug, err := s.uniqueSlug(ctx, in.Name)
	if err != nil {
		return nil, err
	}

	shop := &models.Shop{
		AdminUserID:     admin.ID,
		Name:            in.Name,
		Code:            ShopCode(in.Name, in.EstablishedYear),
		Slug:            slug,
		Address:         in.Address,
		EstablishedYear: in.EstablishedYear,
	}
	if err := s.Repo.CreateShop(ctx, shop); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("shop already exists for this account: %w", ErrConflict)
		}
		return nil, err
	}

	l.Info("shop_created", "shop_id", shop.ID, "code", shop.Code, "slug", shop.Slug)
	return shop, nil
}

func (s *ShopService) GetShopByAdmin(ctx context.Context, adminUserID uint) (*models.Shop, error) {
	shop, err := s.Repo.GetShopByAdmin(ctx, adminUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no shop for this account: %w", ErrNotFound)
		}
		return nil, err
	}
	return shop, nil
}

func (s *ShopService) GetShopBySlug(ctx context.Context, slug string) (*models.Shop, error) {
	shop, err := s.Repo.GetShopBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shop %q: %w", slug, ErrNotFound)
		}
		return nil, err
	}
	return shop, nil
}
