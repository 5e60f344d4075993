package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/pkg/errs"
	"orderservice/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root of a customer's purchase at a shop. It exclusively
// owns its lines.
//
// Order follows these invariants:
//   - It has at least one line, and lines are never added or removed after creation
//   - Total amount equals the sum of unit price × quantity over its lines
//   - Status only moves along the transitions table; COMPLETED and CANCELLED are terminal
//   - Rejected operations leave the aggregate untouched
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	shopID     kernel.UUID
	orderTime  time.Time
	status     Status
	lines      []*Line

	totalAmount kernel.Money

	// queuePosition and estimatedReadyTime stay nil until the shop assigns a slot.
	queuePosition      *int
	estimatedReadyTime *time.Time

	createdAt time.Time
	updatedAt time.Time

	// version is the optimistic lock counter as last read from the store.
	version int

	domainEvents []kernel.DomainEvent
	guard        guard.ConstructorGuard
}

// NewOrder creates a PAID order from lines already priced against the menu.
// The total is computed from the lines, and an OrderPlaced event is recorded.
//
// Example:
//
//	line, _ := order.NewLine(1, latteID, "Latte", kernel.MustMoney("4.50"), 2)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, shopID, []*order.Line{line}, time.Now())
func NewOrder(id, customerID, shopID kernel.UUID, lines []*Line, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, NewEmptyOrderError()
	}

	o := &Order{
		status:    Paid,
		orderTime: now,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setShopID(shopID),
		o.setLines(lines),
	); err != nil {
		return nil, err
	}
	o.totalAmount = sumLines(o.lines)

	o.raise(OrderPlaced{
		ID:          kernel.NewUUID(),
		OrderID:     o.id,
		CustomerID:  o.customerID,
		ShopID:      o.shopID,
		Status:      o.status,
		TotalAmount: o.totalAmount,
		ItemCount:   len(o.lines),
		At:          now,
	})

	return o, nil
}

// RestoreOrderParams carries the persisted state of an order.
type RestoreOrderParams struct {
	ID                 kernel.UUID
	CustomerID         kernel.UUID
	ShopID             kernel.UUID
	OrderTime          time.Time
	Status             Status
	TotalAmount        kernel.Money
	QueuePosition      *int
	EstimatedReadyTime *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int
	Lines              []*Line
}

// RestoreOrder rebuilds an order from persistence. It checks the same invariants as
// NewOrder, including that the stored total reconciles with the lines, and records no events.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	if len(p.Lines) == 0 {
		return nil, NewEmptyOrderError()
	}

	o := &Order{
		orderTime:          p.OrderTime,
		status:             p.Status,
		totalAmount:        p.TotalAmount,
		queuePosition:      p.QueuePosition,
		estimatedReadyTime: p.EstimatedReadyTime,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
		version:            p.Version,
		guard:              guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		o.setID(p.ID),
		o.setCustomerID(p.CustomerID),
		o.setShopID(p.ShopID),
		o.setLines(p.Lines),
		p.Status.Validate(),
		p.TotalAmount.Validate(),
	); err != nil {
		return nil, err
	}

	if sum := sumLines(o.lines); !sum.Equal(p.TotalAmount) {
		return nil, errs.NewValueIsInvalidErrorWithCause("totalAmount",
			fmt.Errorf("stored total %s does not match line total %s", p.TotalAmount, sum))
	}

	return o, nil
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) ShopID() kernel.UUID {
	return o.shopID
}

func (o *Order) OrderTime() time.Time {
	return o.orderTime
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// Lines returns the lines in line-number order. The slice is a copy.
func (o *Order) Lines() []*Line {
	return slices.Clone(o.lines)
}

// QueuePosition returns nil when no slot was assigned.
func (o *Order) QueuePosition() *int {
	if o.queuePosition == nil {
		return nil
	}
	p := *o.queuePosition
	return &p
}

// EstimatedReadyTime returns nil when no slot was assigned.
func (o *Order) EstimatedReadyTime() *time.Time {
	if o.estimatedReadyTime == nil {
		return nil
	}
	t := *o.estimatedReadyTime
	return &t
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version returns the optimistic lock counter as read from the store. The store
// owns the counter; the aggregate never increments it.
func (o *Order) Version() int {
	return o.version
}

// AssignQueueSlot stores the 1-based queue position handed out by the shop and the
// estimated ready time derived from it. A slot can be assigned once, and never to
// an order in a terminal status.
func (o *Order) AssignQueueSlot(position int, readyAt time.Time) error {
	if position < 1 {
		return errs.NewValueIsInvalidErrorWithCause("queuePosition", fmt.Errorf("%d is less than 1", position))
	}
	if o.queuePosition != nil {
		return errs.NewValueIsInvalidErrorWithCause("queuePosition",
			fmt.Errorf("order %s already holds queue position %d", o.id, *o.queuePosition))
	}
	if o.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("queuePosition",
			fmt.Errorf("order %s is %s", o.id, o.status))
	}

	o.queuePosition = &position
	o.estimatedReadyTime = &readyAt

	o.raise(OrderQueued{
		ID:                 kernel.NewUUID(),
		OrderID:            o.id,
		ShopID:             o.shopID,
		QueuePosition:      position,
		EstimatedReadyTime: readyAt,
		At:                 o.updatedAt,
	})
	return nil
}

// ChangeStatus moves the order to target if the transitions table allows it,
// bumps the updated timestamp and records OrderStatusChanged. On error nothing changes.
func (o *Order) ChangeStatus(target Status, now time.Time) error {
	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	previous := o.status
	o.status = next
	o.updatedAt = now

	o.raise(OrderStatusChanged{
		ID:         kernel.NewUUID(),
		OrderID:    o.id,
		CustomerID: o.customerID,
		ShopID:     o.shopID,
		From:       previous,
		To:         next,
		At:         now,
	})
	return nil
}

// Cancel is ChangeStatus(Cancelled).
func (o *Order) Cancel(now time.Time) error {
	return o.ChangeStatus(Cancelled, now)
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []kernel.DomainEvent {
	return slices.Clone(o.domainEvents)
}

func (o *Order) ClearDomainEvents() {
	o.domainEvents = nil
}

func (o *Order) raise(event kernel.DomainEvent) {
	o.domainEvents = append(o.domainEvents, event)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setShopID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shopId", err)
	}
	o.shopID = id
	return nil
}

// setLines requires constructed lines numbered 1..n without gaps.
func (o *Order) setLines(lines []*Line) error {
	sorted := slices.Clone(lines)
	for _, l := range sorted {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	slices.SortFunc(sorted, func(a, b *Line) int { return a.number - b.number })
	for i, l := range sorted {
		if l.number != i+1 {
			return errs.NewValueIsInvalidErrorWithCause("lines",
				fmt.Errorf("line numbers must run from 1 to %d, got %d at position %d", len(sorted), l.number, i+1))
		}
	}
	o.lines = sorted
	return nil
}

func sumLines(lines []*Line) kernel.Money {
	total := kernel.ZeroMoney()
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}
