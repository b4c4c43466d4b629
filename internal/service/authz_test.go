package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grishakov/retail-platform/internal/models"
)

func TestCapabilityMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role models.Role
		op   Operation
		want bool
	}{
		{models.RoleBuyer, OpBrowseCatalog, true},
		{models.RoleBuyer, OpManageCart, true},
		{models.RoleBuyer, OpCheckout, true},
		{models.RoleBuyer, OpCancelOrder, true},
		{models.RoleBuyer, OpManageCatalog, false},
		{models.RoleBuyer, OpManageShop, false},
		{models.RoleBuyer, OpAdvanceOrder, false},

		{models.RoleSeller, OpBrowseCatalog, true},
		{models.RoleSeller, OpManageCatalog, true},
		{models.RoleSeller, OpManageShop, true},
		{models.RoleSeller, OpAdvanceOrder, true},
		{models.RoleSeller, OpManageCart, false},
		{models.RoleSeller, OpCheckout, false},
		{models.RoleSeller, OpCancelOrder, false},

		{models.RoleStaff, OpBrowseCatalog, true},
		{models.RoleStaff, OpManageCatalog, true},
		{models.RoleStaff, OpAdvanceOrder, true},
		{models.RoleStaff, OpManageShop, false},
		{models.RoleStaff, OpCheckout, false},

		{"ghost", OpBrowseCatalog, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.role, tt.op),
			"role %s op %s", tt.role, tt.op)
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Authorize(models.RoleBuyer, OpCheckout))
	assert.ErrorIs(t, Authorize(models.RoleSeller, OpCheckout), ErrAccessDenied)
}
