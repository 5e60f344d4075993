package commands

import (
	"errors"
	"fmt"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/errs"
	"orderservice/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderItem is one requested (menu item, quantity) pair. Quantity is checked by the
// handler while pricing the item, so a bad quantity is reported in input order.
type OrderItem struct {
	MenuItemID kernel.UUID
	Quantity   int
}

// CreateOrderCommand represents a customer's request to place an order at a shop.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customerID, shopID, []OrderItem{
//	    {MenuItemID: latteID, Quantity: 2},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order request: %w", err)
//	}
//	placed, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID
	shopID     kernel.UUID
	items      []OrderItem

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates identifiers and rejects an empty item list with
// order.ErrEmptyOrder, so an empty order never reaches a collaborator.
func NewCreateOrderCommand(orderID, customerID, shopID kernel.UUID, items []OrderItem) (CreateOrderCommand, error) {
	if len(items) == 0 {
		return CreateOrderCommand{}, order.NewEmptyOrderError()
	}

	c := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		c.setOrderID(orderID),
		c.setCustomerID(customerID),
		c.setShopID(shopID),
		c.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return c, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) ShopID() kernel.UUID {
	return c.shopID
}

// Items returns the requested items in input order.
func (c CreateOrderCommand) Items() []OrderItem {
	items := make([]OrderItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setShopID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shopId", err)
	}
	c.shopID = id
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItem) error {
	for i, item := range items {
		if err := item.MenuItemID.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("menuItemId", fmt.Errorf("item %d: %w", i+1, err))
		}
	}
	c.items = make([]OrderItem, len(items))
	copy(c.items, items)
	return nil
}
