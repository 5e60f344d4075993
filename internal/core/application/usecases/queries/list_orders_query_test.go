package queries_test

import (
	"testing"

	"orderservice/internal/adapters/out/inmemory"
	"orderservice/internal/core/application/usecases/queries"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"
	"orderservice/internal/pkg/paging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pageRequest(t *testing.T, page, size int) paging.Request {
	t.Helper()
	req, err := paging.NewRequest(page, size, "", "", ports.OrderSortFields()...)
	require.NoError(t, err)
	return req
}

func TestListOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.ListOrdersQuery{}

	err := query.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrListOrdersQueryIsNotConstructed)
}

func TestListOrdersQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("maps the page and its metadata", func(t *testing.T) {
		first, second := queuedOrder(t), queuedOrder(t)
		shopID := inmemory.SampleShopID1
		status := order.Paid
		filter := ports.OrderFilter{ShopID: &shopID, Status: &status}
		req := pageRequest(t, 1, 2)

		reader := new(MockOrderReader)
		reader.On("Page", ctx, filter, req).
			Return(paging.NewPage([]*order.Order{first, second}, req, 5), nil).Once()

		resp, err := queries.NewListOrdersQueryHandler(reader).Handle(ctx, queries.NewListOrdersQuery(filter, req))

		require.NoError(t, err)
		require.Len(t, resp.Content, 2)
		assert.Equal(t, first.ID().String(), resp.Content[0].OrderID)
		assert.Equal(t, second.ID().String(), resp.Content[1].OrderID)
		assert.Len(t, resp.Content[0].Items, 2)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 2, resp.Size)
		assert.Equal(t, int64(5), resp.TotalElements)
		assert.Equal(t, 3, resp.TotalPages)
		assert.False(t, resp.First)
		assert.False(t, resp.Last)
		assert.True(t, resp.HasNext)
		assert.True(t, resp.HasPrevious)
		reader.AssertExpectations(t)
	})

	t.Run("empty result is an empty page", func(t *testing.T) {
		req := pageRequest(t, 0, 10)
		reader := new(MockOrderReader)
		reader.On("Page", ctx, ports.OrderFilter{}, req).
			Return(paging.NewPage[*order.Order](nil, req, 0), nil).Once()

		resp, err := queries.NewListOrdersQueryHandler(reader).
			Handle(ctx, queries.NewListOrdersQuery(ports.OrderFilter{}, req))

		require.NoError(t, err)
		assert.NotNil(t, resp.Content)
		assert.Empty(t, resp.Content)
		assert.Zero(t, resp.TotalElements)
		assert.Zero(t, resp.TotalPages)
		assert.True(t, resp.First)
		assert.True(t, resp.Last)
		assert.False(t, resp.HasNext)
		assert.False(t, resp.HasPrevious)
	})

	t.Run("last page", func(t *testing.T) {
		req := pageRequest(t, 2, 2)
		reader := new(MockOrderReader)
		reader.On("Page", ctx, ports.OrderFilter{}, req).
			Return(paging.NewPage([]*order.Order{queuedOrder(t)}, req, 5), nil).Once()

		resp, err := queries.NewListOrdersQueryHandler(reader).
			Handle(ctx, queries.NewListOrdersQuery(ports.OrderFilter{}, req))

		require.NoError(t, err)
		assert.True(t, resp.Last)
		assert.False(t, resp.HasNext)
		assert.True(t, resp.HasPrevious)
	})

	t.Run("not constructed query", func(t *testing.T) {
		reader := new(MockOrderReader)

		_, err := queries.NewListOrdersQueryHandler(reader).Handle(ctx, queries.ListOrdersQuery{})

		require.ErrorIs(t, err, queries.ErrListOrdersQueryIsNotConstructed)
		reader.AssertNotCalled(t, "Page", mock.Anything, mock.Anything, mock.Anything)
	})
}
