package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grishakov/retail-platform/internal/models"
)

func TestCreateShop(t *testing.T) {
	t.Parallel()

	r := newTestDB(t)
	ctx := context.Background()

	shop := &models.Shop{
		AdminUserID:     1,
		Name:            "Best Store Mart",
		Code:            "BSM-2025",
		Slug:            "best-store-mart",
		EstablishedYear: 2025,
	}
	require.NoError(t, r.CreateShop(ctx, shop))

	// second shop for the same admin
	again := &models.Shop{AdminUserID: 1, Name: "Again", Code: "A-2025", Slug: "again"}
	assert.ErrorIs(t, r.CreateShop(ctx, again), ErrDuplicate)
}

func TestCreateShop_SlugRaceHitsUniqueIndex(t *testing.T) {
	t.Parallel()

	r := newTestDB(t)
	ctx := context.Background()

	first := &models.Shop{AdminUserID: 1, Name: "Best Store Mart", Code: "BSM-2025", Slug: "best-store-mart"}
	require.NoError(t, r.CreateShop(ctx, first))

	// a concurrent create that passed the slug-exists check before the first
	// insert landed: the unique index refuses it, not a raw driver error
	loser := &models.Shop{AdminUserID: 2, Name: "Best Store Mart", Code: "BSM-2024", Slug: "best-store-mart"}
	assert.ErrorIs(t, r.CreateShop(ctx, loser), ErrDuplicate)
}
