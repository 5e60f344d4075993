package queries_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"orderservice/internal/adapters/out/inmemory"
	"orderservice/internal/core/application/usecases/queries"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"
	"orderservice/internal/pkg/errs"
	"orderservice/internal/pkg/paging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderReader) Page(
	ctx context.Context,
	filter ports.OrderFilter,
	req paging.Request,
) (paging.Page[*order.Order], error) {
	args := m.Called(ctx, filter, req)
	p, _ := args.Get(0).(paging.Page[*order.Order])
	return p, args.Error(1)
}

// queuedOrder is a PAID order of two lattes and a cappuccino holding queue slot 1.
func queuedOrder(t *testing.T) *order.Order {
	t.Helper()
	latte, err := order.NewLine(1, inmemory.LatteID, "Latte", kernel.MustMoney("4.50"), 2)
	require.NoError(t, err)
	cappuccino, err := order.NewLine(2, inmemory.CappuccinoID, "Cappuccino", kernel.MustMoney("4.00"), 1)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), inmemory.SampleShopID1,
		[]*order.Line{latte, cappuccino}, placedAt)
	require.NoError(t, err)
	require.NoError(t, o.AssignQueueSlot(1, placedAt.Add(2*time.Minute)))
	return o
}

func TestNewGetOrderQuery(t *testing.T) {
	id := kernel.NewUUID()

	query, err := queries.NewGetOrderQuery(id)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, query.OrderID().IsEqual(id))

	_, err = queries.NewGetOrderQuery(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	assert.ErrorIs(t, queries.GetOrderQuery{}.Validate(), queries.ErrGetOrderQueryIsNotConstructed)
}

func TestGetOrderQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("returns assembled order", func(t *testing.T) {
		o := queuedOrder(t)
		reader := new(MockOrderReader)
		reader.On("Get", ctx, o.ID()).Return(o, nil).Once()
		query, err := queries.NewGetOrderQuery(o.ID())
		require.NoError(t, err)

		resp, err := queries.NewGetOrderQueryHandler(reader).Handle(ctx, query)

		require.NoError(t, err)
		assert.Equal(t, o.ID().String(), resp.OrderID)
		assert.Equal(t, inmemory.SampleShopID1.String(), resp.ShopID)
		assert.Equal(t, "PAID", resp.Status)
		assert.Equal(t, "13.00", resp.TotalAmount.String())
		require.NotNil(t, resp.QueuePosition)
		assert.Equal(t, 1, *resp.QueuePosition)
		assert.Equal(t, placedAt.Add(2*time.Minute), *resp.EstimatedReadyTime)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "Latte", resp.Items[0].ItemName)
		assert.Equal(t, "9.00", resp.Items[0].TotalPrice.String())
		assert.Equal(t, "4.00", resp.Items[1].TotalPrice.String())
		reader.AssertExpectations(t)
	})

	t.Run("repeated lookups are equal", func(t *testing.T) {
		o := queuedOrder(t)
		reader := new(MockOrderReader)
		reader.On("Get", ctx, o.ID()).Return(o, nil).Twice()
		query, err := queries.NewGetOrderQuery(o.ID())
		require.NoError(t, err)
		h := queries.NewGetOrderQueryHandler(reader)

		first, err := h.Handle(ctx, query)
		require.NoError(t, err)
		second, err := h.Handle(ctx, query)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("unknown order", func(t *testing.T) {
		id := kernel.NewUUID()
		reader := new(MockOrderReader)
		reader.On("Get", ctx, id).Return(nil, order.NewOrderNotFoundError(id)).Once()
		query, err := queries.NewGetOrderQuery(id)
		require.NoError(t, err)

		_, err = queries.NewGetOrderQueryHandler(reader).Handle(ctx, query)

		require.ErrorIs(t, err, order.ErrOrderNotFound)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("not constructed query", func(t *testing.T) {
		reader := new(MockOrderReader)

		_, err := queries.NewGetOrderQueryHandler(reader).Handle(ctx, queries.GetOrderQuery{})

		require.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
		reader.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestNewOrderResponse_JSON(t *testing.T) {
	o := queuedOrder(t)

	raw, err := json.Marshal(queries.NewOrderResponse(o))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, o.ID().String(), body["orderId"])
	assert.Equal(t, "PAID", body["status"])
	assert.InDelta(t, 13.0, body["totalAmount"], 0.0001)
	assert.InDelta(t, 1, body["queuePosition"], 0)
	assert.Equal(t, "2026-10-16T09:32:00Z", body["estimatedReadyTime"])

	items, ok := body["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, inmemory.LatteID.String(), first["menuItemId"])
	assert.InDelta(t, 2, first["quantity"], 0)
	assert.InDelta(t, 4.5, first["unitPrice"], 0.0001)
	assert.InDelta(t, 9.0, first["totalPrice"], 0.0001)
}

func TestNewOrderResponse_UnqueuedOrder(t *testing.T) {
	line, err := order.NewLine(1, inmemory.EspressoID, "Espresso", kernel.MustMoney("3.00"), 1)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), inmemory.SampleShopID2, []*order.Line{line}, placedAt)
	require.NoError(t, err)

	resp := queries.NewOrderResponse(o)

	assert.Nil(t, resp.QueuePosition)
	assert.Nil(t, resp.EstimatedReadyTime)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"queuePosition":null`)
}
