package commands

import (
	"context"

	"orderservice/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels through ChangeOrderStatusCommandHandler, so the
// queue release and the transition rules are shared.
type CancelOrderCommandHandler struct {
	changeStatus ChangeOrderStatusCommandHandler
}

func NewCancelOrderCommandHandler(changeStatus ChangeOrderStatusCommandHandler) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{changeStatus: changeStatus}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	changeCmd, err := NewChangeOrderStatusCommand(cmd.OrderID(), order.Cancelled)
	if err != nil {
		return nil, err
	}
	return h.changeStatus.Handle(ctx, changeCmd)
}
