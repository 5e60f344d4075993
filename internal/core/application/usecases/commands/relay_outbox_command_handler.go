package commands

import (
	"context"
	"log/slog"
	"time"

	"orderservice/internal/core/ports"
)

// RelayOutboxCommandHandler moves domain events from the outbox to the broker.
// Delivery is at least once: a message is marked published only after the broker
// accepted it, and failed messages are rescheduled with exponential backoff.
type RelayOutboxCommandHandler struct {
	outbox    ports.OutboxRepository
	publisher ports.MessagePublisher
	backoff   RetryBackoff
	now       func() time.Time
	logger    *slog.Logger
}

func NewRelayOutboxCommandHandler(
	outbox ports.OutboxRepository,
	publisher ports.MessagePublisher,
	backoff RetryBackoff,
	now func() time.Time,
	logger *slog.Logger,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		outbox:    outbox,
		publisher: publisher,
		backoff:   backoff,
		now:       now,
		logger:    logger.With("component", "RelayOutboxCommandHandler"),
	}
}

// Handle returns how many messages were published. Individual publish failures are
// rescheduled and do not fail the batch; store errors do. Once a message of an
// aggregate fails, its later messages in the batch are left pending so consumers
// never see them ahead of the failed one.
func (h *RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	messages, err := h.outbox.GetPending(ctx, h.now(), cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	published := 0
	blocked := make(map[string]struct{})
	for _, msg := range messages {
		if ctx.Err() != nil {
			return published, ctx.Err()
		}

		if _, ok := blocked[msg.AggregateID]; ok {
			h.logger.DebugContext(ctx, "holding back outbox message behind failed one",
				"outbox_id", msg.ID,
				"aggregate_id", msg.AggregateID,
			)
			continue
		}

		if pubErr := h.publisher.Publish(ctx, msg); pubErr != nil {
			attempts := msg.Attempts + 1
			next := h.now().Add(h.backoff.Delay(attempts))
			h.logger.WarnContext(ctx, "failed to publish outbox message, will retry",
				"outbox_id", msg.ID,
				"event", msg.EventName,
				"attempts", attempts,
				"next_attempt_at", next,
				"error", pubErr,
			)
			if err = h.outbox.ScheduleRetry(ctx, msg.ID, attempts, next, pubErr.Error()); err != nil {
				return published, err
			}
			blocked[msg.AggregateID] = struct{}{}
			continue
		}

		if err = h.outbox.MarkPublished(ctx, msg.ID, h.now()); err != nil {
			return published, err
		}
		published++
	}

	if len(messages) > 0 {
		h.logger.InfoContext(ctx, "outbox batch relayed", "pending", len(messages), "published", published)
	}
	return published, nil
}
