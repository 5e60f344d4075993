package commands_test

import (
	"context"
	"time"

	"orderservice/internal/core/application/usecases/commands"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"
	"orderservice/internal/pkg/paging"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Page(
	ctx context.Context,
	filter ports.OrderFilter,
	req paging.Request,
) (paging.Page[*order.Order], error) {
	args := m.Called(ctx, filter, req)
	return args.Get(0).(paging.Page[*order.Order]), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockShopQueue struct{ mock.Mock }

func (m *MockShopQueue) ShopExists(ctx context.Context, shopID kernel.UUID) (bool, error) {
	args := m.Called(ctx, shopID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShopQueue) EnqueueOrder(ctx context.Context, shopID, orderID kernel.UUID) (int, error) {
	args := m.Called(ctx, shopID, orderID)
	return args.Int(0), args.Error(1)
}

func (m *MockShopQueue) DequeueOrder(ctx context.Context, shopID, orderID kernel.UUID) error {
	args := m.Called(ctx, shopID, orderID)
	return args.Error(0)
}

type MockMenuCatalog struct{ mock.Mock }

func (m *MockMenuCatalog) MenuItemPrice(ctx context.Context, id kernel.UUID) (kernel.Money, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(kernel.Money), args.Bool(1), args.Error(2)
}

func (m *MockMenuCatalog) MenuItemName(ctx context.Context, id kernel.UUID) (string, bool, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Bool(1), args.Error(2)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) GetPending(ctx context.Context, now time.Time, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, now, limit)
	msgs, _ := args.Get(0).([]ports.OutboxMessage)
	return msgs, args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockOutboxRepository) ScheduleRetry(
	ctx context.Context,
	id int64,
	attempts int,
	next time.Time,
	lastErr string,
) error {
	args := m.Called(ctx, id, attempts, next, lastErr)
	return args.Error(0)
}

type MockMessagePublisher struct{ mock.Mock }

func (m *MockMessagePublisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// newUoW wires a factory that hands out one unit of work bound to repo.
func newUoW(repo ports.OrderRepository) (*MockOrderUoWFactory, *MockOrderUoW) {
	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo).Maybe()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow
}
