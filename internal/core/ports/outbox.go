package ports

import (
	"context"
	"time"
)

// OutboxMessage is a serialized domain event waiting to be published.
type OutboxMessage struct {
	ID            int64
	AggregateID   string
	EventID       string
	EventName     string
	Payload       []byte
	OccurredAt    time.Time
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
}

// OutboxRepository reads and acknowledges outbox messages for the relay.
type OutboxRepository interface {
	// GetPending returns up to limit unpublished messages due at or before now,
	// oldest first.
	GetPending(ctx context.Context, now time.Time, limit int) ([]OutboxMessage, error)

	MarkPublished(ctx context.Context, id int64, publishedAt time.Time) error

	// ScheduleRetry records a failed attempt and when to try next.
	ScheduleRetry(ctx context.Context, id int64, attempts int, nextAttemptAt time.Time, lastErr string) error
}

// MessagePublisher delivers an outbox message to the event broker.
type MessagePublisher interface {
	Publish(ctx context.Context, msg OutboxMessage) error
}
