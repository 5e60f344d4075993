package order

import (
	"errors"
	"fmt"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/pkg/errs"
)

// Error kinds of the order lifecycle. Each is wrapped in an errs type, so callers
// can match the kind (errors.Is(err, ErrShopNotFound)) or the category
// (errors.Is(err, errs.ErrObjectNotFound)).
var (
	ErrShopNotFound        = errors.New("shop not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrMenuItemUnavailable = errors.New("menu item unavailable")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrEmptyOrder          = errors.New("order must contain at least one item")
	ErrIllegalTransition   = errors.New("illegal status transition")
)

func NewShopNotFoundError(shopID kernel.UUID) error {
	return errs.NewObjectNotFoundErrorWithCause("shopId", shopID, ErrShopNotFound)
}

func NewOrderNotFoundError(orderID kernel.UUID) error {
	return errs.NewObjectNotFoundErrorWithCause("orderId", orderID, ErrOrderNotFound)
}

func NewMenuItemUnavailableError(menuItemID kernel.UUID) error {
	return errs.NewValueIsInvalidErrorWithCause("menuItemId",
		fmt.Errorf("%w: %s", ErrMenuItemUnavailable, menuItemID))
}

func NewInvalidQuantityError(menuItemID kernel.UUID, quantity int) error {
	return errs.NewValueIsInvalidErrorWithCause("quantity",
		fmt.Errorf("%w: %d for menu item %s, must be greater than 0", ErrInvalidQuantity, quantity, menuItemID))
}

func NewEmptyOrderError() error {
	return errs.NewValueIsRequiredErrorWithCause("items", ErrEmptyOrder)
}

// NewIllegalTransitionError names the current and the requested status.
func NewIllegalTransitionError(from, to Status) error {
	return errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%w: cannot change status from %s to %s", ErrIllegalTransition, from, to))
}
