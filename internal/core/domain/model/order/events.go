package order

import (
	"time"

	"orderservice/internal/core/domain/model/kernel"
)

// Event names used as outbox message types and Kafka headers.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderQueued        = "order.queued"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderPlaced is recorded when a new order is constructed.
type OrderPlaced struct {
	ID          kernel.UUID  `json:"eventId"`
	OrderID     kernel.UUID  `json:"orderId"`
	CustomerID  kernel.UUID  `json:"customerId"`
	ShopID      kernel.UUID  `json:"shopId"`
	Status      Status       `json:"status"`
	TotalAmount kernel.Money `json:"totalAmount"`
	ItemCount   int          `json:"itemCount"`
	At          time.Time    `json:"occurredAt"`
}

func (e OrderPlaced) EventID() kernel.UUID     { return e.ID }
func (e OrderPlaced) EventName() string        { return EventOrderPlaced }
func (e OrderPlaced) AggregateID() kernel.UUID { return e.OrderID }
func (e OrderPlaced) OccurredAt() time.Time    { return e.At }

// OrderQueued is recorded when the shop assigns the order a queue slot.
type OrderQueued struct {
	ID                 kernel.UUID `json:"eventId"`
	OrderID            kernel.UUID `json:"orderId"`
	ShopID             kernel.UUID `json:"shopId"`
	QueuePosition      int         `json:"queuePosition"`
	EstimatedReadyTime time.Time   `json:"estimatedReadyTime"`
	At                 time.Time   `json:"occurredAt"`
}

func (e OrderQueued) EventID() kernel.UUID     { return e.ID }
func (e OrderQueued) EventName() string        { return EventOrderQueued }
func (e OrderQueued) AggregateID() kernel.UUID { return e.OrderID }
func (e OrderQueued) OccurredAt() time.Time    { return e.At }

// OrderStatusChanged is recorded for every accepted transition.
type OrderStatusChanged struct {
	ID         kernel.UUID `json:"eventId"`
	OrderID    kernel.UUID `json:"orderId"`
	CustomerID kernel.UUID `json:"customerId"`
	ShopID     kernel.UUID `json:"shopId"`
	From       Status      `json:"from"`
	To         Status      `json:"to"`
	At         time.Time   `json:"occurredAt"`
}

func (e OrderStatusChanged) EventID() kernel.UUID     { return e.ID }
func (e OrderStatusChanged) EventName() string        { return EventOrderStatusChanged }
func (e OrderStatusChanged) AggregateID() kernel.UUID { return e.OrderID }
func (e OrderStatusChanged) OccurredAt() time.Time    { return e.At }
