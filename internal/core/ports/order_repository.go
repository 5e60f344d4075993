// Package ports defines the contracts between the order core and its adapters:
// persistence, the shop queue and menu collaborators, and the event outbox.
package ports

import (
	"context"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/paging"
)

// Sort fields accepted by OrderRepository.Page. The first one is the default.
const (
	SortByOrderTime     = "orderTime"
	SortByCreatedAt     = "createdAt"
	SortByUpdatedAt     = "updatedAt"
	SortByTotalAmount   = "totalAmount"
	SortByStatus        = "status"
	SortByQueuePosition = "queuePosition"
)

// OrderSortFields lists the sortable order fields, default first.
func OrderSortFields() []string {
	return []string{
		SortByOrderTime,
		SortByCreatedAt,
		SortByUpdatedAt,
		SortByTotalAmount,
		SortByStatus,
		SortByQueuePosition,
	}
}

// OrderFilter narrows a listing. Nil fields do not filter; an empty filter lists all orders.
type OrderFilter struct {
	CustomerID *kernel.UUID
	ShopID     *kernel.UUID
	Status     *order.Status
}

// OrderRepository defines the persistence contract for order aggregates.
// Every returned order carries its full line set.
type OrderRepository interface {
	// Add persists a new order together with its lines.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the mutable fields of an existing order (status, queue slot,
	// updated timestamp). It fails with errs.ErrVersionIsInvalid when the stored
	// version differs from aggregate.Version().
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the order or an error matching order.ErrOrderNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get with a row lock held until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Page returns one page of the orders matching filter. An empty result is an
	// empty page, not an error.
	Page(ctx context.Context, filter OrderFilter, req paging.Request) (paging.Page[*order.Order], error)
}
