package queries

import (
	"context"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"
	"orderservice/internal/pkg/paging"
)

// OrderReader is the read side of the order store used by the query handlers.
// Outside a transaction the postgres order repository satisfies it directly.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	Page(ctx context.Context, filter ports.OrderFilter, req paging.Request) (paging.Page[*order.Order], error)
}

// GetOrderQueryHandler returns one order as an OrderResponse.
type GetOrderQueryHandler struct {
	orders OrderReader
}

func NewGetOrderQueryHandler(orders OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

// Handle fails with an error matching order.ErrOrderNotFound for an unknown id.
// Repeated lookups of the same id return equal responses.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return OrderResponse{}, err
	}

	return NewOrderResponse(o), nil
}
