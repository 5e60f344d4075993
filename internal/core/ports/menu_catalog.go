package ports

import (
	"context"

	"orderservice/internal/core/domain/model/kernel"
)

// MenuCatalog is the menu collaborator. The boolean result is false when the item
// is unknown or unavailable; err is reserved for lookup failures.
type MenuCatalog interface {
	MenuItemPrice(ctx context.Context, menuItemID kernel.UUID) (kernel.Money, bool, error)
	MenuItemName(ctx context.Context, menuItemID kernel.UUID) (string, bool, error)
}
