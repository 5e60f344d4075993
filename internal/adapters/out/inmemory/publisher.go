package inmemory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"orderservice/internal/core/ports"
)

// Publisher keeps published outbox messages in memory and logs each one. It stands
// in for the broker when none is configured.
type Publisher struct {
	mu       sync.Mutex
	messages []ports.OutboxMessage
	logger   *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger.With("component", "inmemory_publisher")}
}

func (p *Publisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	p.mu.Lock()
	p.messages = append(p.messages, msg)
	p.mu.Unlock()

	p.logger.InfoContext(ctx, "Event published",
		"event", msg.EventName, "aggregateId", msg.AggregateID, "eventId", msg.EventID)
	return nil
}

// Messages returns the published messages in publish order.
func (p *Publisher) Messages() []ports.OutboxMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.messages)
}
