package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "orderservice/internal/adapters/in/http"
	"orderservice/internal/core/application/usecases/commands"
	"orderservice/internal/core/application/usecases/queries"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/errs"
	"orderservice/internal/pkg/paging"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	customerID = kernel.MustUUID("c0000000-0000-0000-0000-000000000001")
	shopID     = kernel.MustUUID("b0000000-0000-0000-0000-000000000001")
	latteID    = kernel.MustUUID("a0000000-0000-0000-0000-000000000001")
	placedAt   = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
)

type MockCreator struct{ mock.Mock }

func (m *MockCreator) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockStatusChanger struct{ mock.Mock }

func (m *MockStatusChanger) Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockCanceller struct{ mock.Mock }

func (m *MockCanceller) Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockGetter struct{ mock.Mock }

func (m *MockGetter) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderResponse), args.Error(1)
}

type MockLister struct{ mock.Mock }

func (m *MockLister) Handle(
	ctx context.Context,
	query queries.ListOrdersQuery,
) (queries.PageResponse[queries.OrderResponse], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.PageResponse[queries.OrderResponse]), args.Error(1)
}

type fixture struct {
	creator  *MockCreator
	changer  *MockStatusChanger
	canceler *MockCanceller
	getter   *MockGetter
	lister   *MockLister
	router   *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		creator:  new(MockCreator),
		changer:  new(MockStatusChanger),
		canceler: new(MockCanceller),
		getter:   new(MockGetter),
		lister:   new(MockLister),
	}
	logger := slog.New(slog.DiscardHandler)
	server := httpadapter.NewServer(f.creator, f.changer, f.canceler, f.getter, f.lister, logger)

	router, err := httpadapter.NewRouter(context.Background(), server, "orderservice-test", logger)
	require.NoError(t, err)
	f.router = router
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func placedOrder(t *testing.T) *order.Order {
	t.Helper()
	line, err := order.NewLine(1, latteID, "Latte", kernel.MustMoney("4.50"), 2)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), customerID, shopID, []*order.Line{line}, placedAt)
	require.NoError(t, err)
	require.NoError(t, o.AssignQueueSlot(1, placedAt.Add(2*time.Minute)))
	return o
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpadapter.Error {
	t.Helper()
	var body httpadapter.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateOrder(t *testing.T) {
	body := `{"customerId":"` + customerID.String() + `","shopId":"` + shopID.String() +
		`","items":[{"menuItemId":"` + latteID.String() + `","quantity":2}]}`

	t.Run("placed order is returned with 201", func(t *testing.T) {
		f := newFixture(t)
		placed := placedOrder(t)
		f.creator.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
			items := cmd.Items()
			return cmd.CustomerID().IsEqual(customerID) &&
				cmd.ShopID().IsEqual(shopID) &&
				len(items) == 1 &&
				items[0].MenuItemID.IsEqual(latteID) &&
				items[0].Quantity == 2
		})).Return(placed, nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders", body)

		require.Equal(t, http.StatusCreated, rec.Code)
		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, placed.ID().String(), response["orderId"])
		assert.Equal(t, "PAID", response["status"])
		assert.InDelta(t, 9.0, response["totalAmount"], 0.0001)
		assert.InDelta(t, 1, response["queuePosition"], 0)
		f.creator.AssertExpectations(t)
	})

	t.Run("body breaking the contract never reaches the handler", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders", `{"customerId":"`+customerID.String()+`","items":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Code)
		f.creator.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("empty item list is rejected", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders",
			`{"customerId":"`+customerID.String()+`","shopId":"`+shopID.String()+`","items":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, order.ErrEmptyOrder.Error())
		f.creator.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	cases := map[string]struct {
		err  error
		code int
	}{
		"unknown shop":          {order.NewShopNotFoundError(shopID), http.StatusNotFound},
		"unavailable menu item": {order.NewMenuItemUnavailableError(latteID), http.StatusBadRequest},
		"invalid quantity":      {order.NewInvalidQuantityError(latteID, 0), http.StatusBadRequest},
		"store failure":         {errors.New("connection refused"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.creator.On("Handle", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			rec := f.do(http.MethodPost, "/api/v1/orders", body)

			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.code, decodeError(t, rec).Code)
		})
	}

	t.Run("internal errors are not leaked", func(t *testing.T) {
		f := newFixture(t)
		f.creator.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errors.New("pq: password authentication failed")).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders", body)

		assert.Equal(t, "Internal server error", decodeError(t, rec).Message)
	})
}

func TestGetOrder(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		o := placedOrder(t)
		f.getter.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
			return q.OrderID().IsEqual(o.ID())
		})).Return(queries.NewOrderResponse(o), nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+o.ID().String(), "")

		require.Equal(t, http.StatusOK, rec.Code)
		var response queries.OrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, o.ID().String(), response.OrderID)
		require.Len(t, response.Items, 1)
		assert.Equal(t, "Latte", response.Items[0].ItemName)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture(t)
		id := kernel.NewUUID()
		f.getter.On("Handle", mock.Anything, mock.Anything).
			Return(queries.OrderResponse{}, order.NewOrderNotFoundError(id)).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.getter.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestGetOrderQRCode(t *testing.T) {
	f := newFixture(t)
	o := placedOrder(t)
	f.getter.On("Handle", mock.Anything, mock.Anything).Return(queries.NewOrderResponse(o), nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/"+o.ID().String()+"/qrcode", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestChangeOrderStatus(t *testing.T) {
	o := placedOrder(t)
	target := "/api/v1/orders/" + o.ID().String() + "/status"

	t.Run("accepted", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, o.ChangeStatus(order.Preparing, placedAt.Add(time.Minute)))
		f.changer.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ChangeOrderStatusCommand) bool {
			return cmd.OrderID().IsEqual(o.ID()) && cmd.Status() == order.Preparing
		})).Return(o, nil).Once()

		rec := f.do(http.MethodPatch, target, `{"status":"PREPARING","reason":"barista started"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"PREPARING"`)
	})

	t.Run("status outside the enum", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPatch, target, `{"status":"SHIPPED"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.changer.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	cases := map[string]struct {
		err  error
		code int
	}{
		"illegal transition": {order.NewIllegalTransitionError(order.Completed, order.Paid), http.StatusBadRequest},
		"unknown order":      {order.NewOrderNotFoundError(o.ID()), http.StatusNotFound},
		"concurrent update":  {errs.NewVersionIsInvalidError("version"), http.StatusConflict},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.changer.On("Handle", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			rec := f.do(http.MethodPatch, target, `{"status":"PAID"}`)

			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestCancelOrder(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		f := newFixture(t)
		o := placedOrder(t)
		require.NoError(t, o.Cancel(placedAt.Add(time.Minute)))
		f.canceler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CancelOrderCommand) bool {
			return cmd.OrderID().IsEqual(o.ID())
		})).Return(o, nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/cancel", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"CANCELLED"`)
	})

	t.Run("terminal order", func(t *testing.T) {
		f := newFixture(t)
		id := kernel.NewUUID()
		f.canceler.On("Handle", mock.Anything, mock.Anything).
			Return(nil, order.NewIllegalTransitionError(order.Cancelled, order.Cancelled)).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+id.String()+"/cancel", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "from CANCELLED to CANCELLED")
	})
}

func emptyPage() queries.PageResponse[queries.OrderResponse] {
	req, _ := paging.NewRequest(0, paging.DefaultSize, "", "", "orderTime")
	return queries.NewPageResponse(paging.NewPage[queries.OrderResponse](nil, req, 0))
}

func TestListOrders(t *testing.T) {
	t.Run("defaults and combined filters", func(t *testing.T) {
		f := newFixture(t)
		f.lister.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
			filter, req := q.Filter(), q.Request()
			return filter.CustomerID != nil && filter.CustomerID.IsEqual(customerID) &&
				filter.ShopID != nil && filter.ShopID.IsEqual(shopID) &&
				filter.Status != nil && *filter.Status == order.Paid &&
				req.Page() == 0 && req.Size() == paging.DefaultSize &&
				req.SortBy() == "orderTime" && req.Direction() == paging.Desc
		})).Return(emptyPage(), nil).Once()

		rec := f.do(http.MethodGet,
			"/api/v1/orders?customerId="+customerID.String()+"&shopId="+shopID.String()+"&status=PAID", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"content":[],"page":0,"size":10,"totalElements":0,"totalPages":0,
			"first":true,"last":true,"hasNext":false,"hasPrevious":false}`, rec.Body.String())
		f.lister.AssertExpectations(t)
	})

	t.Run("paging parameters", func(t *testing.T) {
		f := newFixture(t)
		f.lister.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
			req := q.Request()
			return req.Page() == 2 && req.Size() == 5 && req.SortBy() == "totalAmount" && req.Direction() == paging.Asc
		})).Return(emptyPage(), nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders?page=2&size=5&sortBy=totalAmount&sortDir=asc", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		f.lister.AssertExpectations(t)
	})

	for name, query := range map[string]string{
		"oversized page":   "size=500",
		"negative page":    "page=-1",
		"page too far":     "page=1000001",
		"page overflow":    "page=9223372036854775807",
		"unknown sort":     "sortBy=password",
		"bad direction":    "sortDir=sideways",
		"non numeric page": "page=first",
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(http.MethodGet, "/api/v1/orders?"+query, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			f.lister.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}

func TestListOrders_ByPath(t *testing.T) {
	cases := map[string]struct {
		target string
		match  func(q queries.ListOrdersQuery) bool
	}{
		"customer": {
			target: "/api/v1/orders/customers/" + customerID.String(),
			match: func(q queries.ListOrdersQuery) bool {
				return q.Filter().CustomerID != nil && q.Filter().CustomerID.IsEqual(customerID) && q.Filter().ShopID == nil
			},
		},
		"shop": {
			target: "/api/v1/orders/shops/" + shopID.String() + "?size=20",
			match: func(q queries.ListOrdersQuery) bool {
				return q.Filter().ShopID != nil && q.Filter().ShopID.IsEqual(shopID) && q.Request().Size() == 20
			},
		},
		"status in any case": {
			target: "/api/v1/orders/status/ready_for_pickup",
			match: func(q queries.ListOrdersQuery) bool {
				return q.Filter().Status != nil && *q.Filter().Status == order.ReadyForPickup
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.lister.On("Handle", mock.Anything, mock.MatchedBy(tc.match)).Return(emptyPage(), nil).Once()

			rec := f.do(http.MethodGet, tc.target, "")

			assert.Equal(t, http.StatusOK, rec.Code)
			f.lister.AssertExpectations(t)
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/orders/status/SHIPPED", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_Infrastructure(t *testing.T) {
	f := newFixture(t)

	t.Run("health", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Healthy", rec.Body.String())
	})

	t.Run("contract", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/openapi.yaml", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "openapi: 3.0.3"))
		assert.Equal(t, httpadapter.OpenAPISpec(), rec.Body.Bytes())
	})

	t.Run("unknown route uses the error body", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/v2/orders", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
	})
}
