// Package order implements the Order aggregate of the shop ordering platform.
//
// The package includes:
//   - Order: aggregate root holding identity, totals, queue slot and lifecycle status
//   - Line: a menu item snapshot (price and name fixed at order time) with a quantity
//   - Status: the lifecycle enum and its transitions table
//   - Events recorded by the aggregate: OrderPlaced, OrderQueued, OrderStatusChanged
//   - Error kinds: ErrShopNotFound, ErrOrderNotFound, ErrMenuItemUnavailable,
//     ErrInvalidQuantity, ErrEmptyOrder, ErrIllegalTransition
//
// Key business rules:
//   - An order has at least one line and its total is the exact decimal sum of line totals
//   - Creation produces PAID; PENDING is reserved for a pre-payment flow
//   - COMPLETED and CANCELLED are terminal
//   - Orders are never deleted; cancelling is a status change
package order
