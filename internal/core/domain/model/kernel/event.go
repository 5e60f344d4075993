package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate. Aggregates collect events while
// they mutate; the unit of work drains them into the outbox on commit.
type DomainEvent interface {
	EventID() UUID
	EventName() string
	AggregateID() UUID
	OccurredAt() time.Time
}

// AggregateRoot is implemented by aggregates that record domain events.
type AggregateRoot interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}
