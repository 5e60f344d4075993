package inmemory

import (
	"context"
	"slices"
	"sync"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
)

// ShopQueue keeps one FIFO queue per known shop.
type ShopQueue struct {
	mu     sync.Mutex
	queues map[kernel.UUID][]kernel.UUID
}

func NewShopQueue(shops ...kernel.UUID) *ShopQueue {
	q := &ShopQueue{queues: make(map[kernel.UUID][]kernel.UUID, len(shops))}
	for _, id := range shops {
		q.queues[id] = nil
	}
	return q
}

func (q *ShopQueue) ShopExists(_ context.Context, shopID kernel.UUID) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, ok := q.queues[shopID]
	return ok, nil
}

// EnqueueOrder appends the order and returns its 1-based position. Enqueuing an
// order that is already queued returns its current position.
func (q *ShopQueue) EnqueueOrder(_ context.Context, shopID, orderID kernel.UUID) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue, ok := q.queues[shopID]
	if !ok {
		return 0, order.NewShopNotFoundError(shopID)
	}
	if i := slices.Index(queue, orderID); i >= 0 {
		return i + 1, nil
	}
	q.queues[shopID] = append(queue, orderID)
	return len(queue) + 1, nil
}

// DequeueOrder removes the order; unknown shops and absent orders are ignored.
func (q *ShopQueue) DequeueOrder(_ context.Context, shopID, orderID kernel.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue, ok := q.queues[shopID]
	if !ok {
		return nil
	}
	q.queues[shopID] = slices.DeleteFunc(queue, func(id kernel.UUID) bool { return id.IsEqual(orderID) })
	return nil
}

// Len returns the queue length of a shop.
func (q *ShopQueue) Len(shopID kernel.UUID) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queues[shopID])
}
