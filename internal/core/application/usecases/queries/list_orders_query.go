package queries

import (
	"errors"

	"orderservice/internal/core/ports"
	"orderservice/internal/pkg/guard"
	"orderservice/internal/pkg/paging"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersQuery pages through orders matching an optional filter. An empty
// filter lists all orders; filters combine with AND.
//
// Example:
//
//	req, err := paging.NewRequest(0, 20, "", "", ports.OrderSortFields()...)
//	if err != nil {
//	    return err
//	}
//	shopID := shop.ID()
//	query := NewListOrdersQuery(ports.OrderFilter{ShopID: &shopID}, req)
//
//	page, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	filter  ports.OrderFilter
	request paging.Request

	guard guard.ConstructorGuard
}

// NewListOrdersQuery takes an already validated page request, so it cannot fail.
func NewListOrdersQuery(filter ports.OrderFilter, request paging.Request) ListOrdersQuery {
	return ListOrdersQuery{
		filter:  filter,
		request: request,
		guard:   guard.NewConstructorGuard(),
	}
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() ports.OrderFilter {
	return q.filter
}

func (q ListOrdersQuery) Request() paging.Request {
	return q.request
}
