package ports

import (
	"context"

	"orderservice/internal/core/domain/model/kernel"
)

// ShopQueue is the shop collaborator: it knows which shops exist and keeps their
// pickup queues.
type ShopQueue interface {
	ShopExists(ctx context.Context, shopID kernel.UUID) (bool, error)

	// EnqueueOrder appends the order to the shop queue and returns its 1-based position.
	// An unknown shop yields an error matching order.ErrShopNotFound.
	EnqueueOrder(ctx context.Context, shopID, orderID kernel.UUID) (int, error)

	// DequeueOrder removes the order from the shop queue. Removing an absent order is a no-op.
	DequeueOrder(ctx context.Context, shopID, orderID kernel.UUID) error
}
