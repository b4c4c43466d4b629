package service

import (
	"fmt"

	"github.com/grishakov/retail-platform/internal/models"
)

type Operation string

const (
	OpBrowseCatalog Operation = "catalog.browse"
	OpManageCart    Operation = "cart.manage"
	OpCheckout      Operation = "order.checkout"
	OpCancelOrder   Operation = "order.cancel"
	OpManageCatalog Operation = "catalog.manage"
	OpManageShop    Operation = "shop.manage"
	OpAdvanceOrder  Operation = "order.advance"
)

// roleCaps is the single place role gating lives: role -> allowed operations.
var roleCaps = map[models.Role]map[Operation]bool{
	models.RoleBuyer: {
		OpBrowseCatalog: true,
		OpManageCart:    true,
		OpCheckout:      true,
		OpCancelOrder:   true,
	},
	models.RoleSeller: {
		OpBrowseCatalog: true,
		OpManageCatalog: true,
		OpManageShop:    true,
		OpAdvanceOrder:  true,
	},
	models.RoleStaff: {
		OpBrowseCatalog: true,
		OpManageCatalog: true,
		OpAdvanceOrder:  true,
	},
}

func Allowed(role models.Role, op Operation) bool {
	caps, ok := roleCaps[role]
	return ok && caps[op]
}

func Authorize(role models.Role, op Operation) error {
	if !Allowed(role, op) {
		return fmt.Errorf("%s requires a different account type: %w", op, ErrAccessDenied)
	}
	return nil
}
