package commands

import (
	"context"
	"log/slog"
	"time"

	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"
)

// ChangeOrderStatusCommandHandler applies a status transition inside one transaction:
// the order row is locked, the transition is checked against the transitions table,
// and the update is guarded by the optimistic version.
//
// Cancelling releases the order's queue slot before the new status is persisted.
// A failed release is logged and does not fail the transition.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	shops      ports.ShopQueue
	now        func() time.Time
	logger     *slog.Logger
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	shops ports.ShopQueue,
	now func() time.Time,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		shops:      shops,
		now:        now,
		logger:     logger.With("component", "ChangeOrderStatusCommandHandler"),
	}
}

// Handle returns the updated order. Rejected transitions fail with an error matching
// order.ErrIllegalTransition and leave the stored order unchanged.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	previous := o.Status()
	if err = o.ChangeStatus(cmd.Status(), h.now()); err != nil {
		return nil, err
	}

	if o.Status() == order.Cancelled {
		h.releaseSlot(ctx, o)
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order status changed",
		"order_id", o.ID().String(),
		"from", previous.String(),
		"to", o.Status().String(),
	)
	return o, nil
}

func (h *ChangeOrderStatusCommandHandler) releaseSlot(ctx context.Context, o *order.Order) {
	if err := h.shops.DequeueOrder(ctx, o.ShopID(), o.ID()); err != nil {
		h.logger.ErrorContext(ctx, "failed to release queue slot of cancelled order",
			"order_id", o.ID().String(),
			"shop_id", o.ShopID().String(),
			"error", err,
		)
	}
}
