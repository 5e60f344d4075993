package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/domain/services"
	"orderservice/internal/core/ports"
)

// CreateOrderCommandHandler places an order: it checks the shop, prices every item
// against the menu, takes a queue slot and persists the order with its lines in one
// unit of work. Nothing is persisted when any step fails.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, shops, menu, estimator, 2*time.Second, time.Now, logger)
//	placed, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrShopNotFound) {
//	    // 404
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	shops      ports.ShopQueue
	menu       ports.MenuCatalog
	estimator  services.ReadyTimeEstimator
	timeout    time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	shops ports.ShopQueue,
	menu ports.MenuCatalog,
	estimator services.ReadyTimeEstimator,
	collaboratorTimeout time.Duration,
	now func() time.Time,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		shops:      shops,
		menu:       menu,
		estimator:  estimator,
		timeout:    collaboratorTimeout,
		now:        now,
		logger:     logger.With("component", "CreateOrderCommandHandler"),
	}
}

// Handle returns the persisted order. Every shop queue and menu call gets its own
// collaboratorTimeout; a zero timeout leaves them bounded by ctx only. Collaborator
// errors, context.DeadlineExceeded included, are returned as is and not retried.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	exists, err := withTimeout(ctx, h.timeout, func(ctx context.Context) (bool, error) {
		return h.shops.ShopExists(ctx, cmd.ShopID())
	})
	if err != nil {
		return nil, fmt.Errorf("check shop %s: %w", cmd.ShopID(), err)
	}
	if !exists {
		return nil, order.NewShopNotFoundError(cmd.ShopID())
	}

	lines, err := h.priceItems(ctx, cmd.Items())
	if err != nil {
		return nil, err
	}

	now := h.now()
	placed, err := order.NewOrder(cmd.OrderID(), cmd.CustomerID(), cmd.ShopID(), lines, now)
	if err != nil {
		return nil, err
	}

	position, err := withTimeout(ctx, h.timeout, func(ctx context.Context) (int, error) {
		return h.shops.EnqueueOrder(ctx, placed.ShopID(), placed.ID())
	})
	if err != nil {
		return nil, err
	}

	if err = h.estimator.Queue(placed, position, now); err != nil {
		h.releaseSlot(ctx, placed)
		return nil, err
	}

	if err = h.persist(ctx, placed); err != nil {
		h.releaseSlot(ctx, placed)
		return nil, err
	}

	h.logger.InfoContext(ctx, "order placed",
		"order_id", placed.ID().String(),
		"shop_id", placed.ShopID().String(),
		"queue_position", position,
		"total", placed.TotalAmount().String(),
	)
	return placed, nil
}

// priceItems resolves price and name for every item in input order and snapshots
// them into lines numbered from 1.
func (h *CreateOrderCommandHandler) priceItems(ctx context.Context, items []OrderItem) ([]*order.Line, error) {
	lines := make([]*order.Line, 0, len(items))
	for i, item := range items {
		price, err := withTimeout(ctx, h.timeout, func(ctx context.Context) (lookup[kernel.Money], error) {
			value, found, err := h.menu.MenuItemPrice(ctx, item.MenuItemID)
			return lookup[kernel.Money]{value, found}, err
		})
		if err != nil {
			return nil, fmt.Errorf("look up price of %s: %w", item.MenuItemID, err)
		}
		if !price.found {
			return nil, order.NewMenuItemUnavailableError(item.MenuItemID)
		}

		name, err := withTimeout(ctx, h.timeout, func(ctx context.Context) (lookup[string], error) {
			value, found, err := h.menu.MenuItemName(ctx, item.MenuItemID)
			return lookup[string]{value, found}, err
		})
		if err != nil {
			return nil, fmt.Errorf("look up name of %s: %w", item.MenuItemID, err)
		}
		if !name.found {
			return nil, order.NewMenuItemUnavailableError(item.MenuItemID)
		}

		if item.Quantity <= 0 {
			return nil, order.NewInvalidQuantityError(item.MenuItemID, item.Quantity)
		}

		line, err := order.NewLine(i+1, item.MenuItemID, name.value, price.value, item.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, order.NewEmptyOrderError()
	}
	return lines, nil
}

func (h *CreateOrderCommandHandler) persist(ctx context.Context, placed *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, placed); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// releaseSlot gives the queue slot back after a failed creation. Failures are only logged.
func (h *CreateOrderCommandHandler) releaseSlot(ctx context.Context, placed *order.Order) {
	_, err := withTimeout(ctx, h.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.shops.DequeueOrder(ctx, placed.ShopID(), placed.ID())
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to release queue slot of unsaved order",
			"order_id", placed.ID().String(),
			"shop_id", placed.ShopID().String(),
			"error", err,
		)
	}
}

type lookup[T any] struct {
	value T
	found bool
}

// withTimeout runs call under its own deadline when timeout is positive.
func withTimeout[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return call(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return call(ctx)
}
