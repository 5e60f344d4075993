package queries

import (
	"context"

	"orderservice/internal/pkg/paging"
)

// ListOrdersQueryHandler returns one page of orders, each with its full line set.
type ListOrdersQueryHandler struct {
	orders OrderReader
}

func NewListOrdersQueryHandler(orders OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{orders: orders}
}

// Handle returns an empty page, not an error, when nothing matches.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (PageResponse[OrderResponse], error) {
	if err := query.Validate(); err != nil {
		return PageResponse[OrderResponse]{}, err
	}

	page, err := h.orders.Page(ctx, query.Filter(), query.Request())
	if err != nil {
		return PageResponse[OrderResponse]{}, err
	}

	return NewPageResponse(paging.Map(page, NewOrderResponse)), nil
}
