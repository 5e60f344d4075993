// Package outboxrepo stores domain events in the outbox_messages table until the
// relay publishes them.
package outboxrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/ports"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// MessageDTO is a row of the outbox_messages table. IDs are snowflakes, so they
// grow with creation time.
type MessageDTO struct {
	ID            int64  `gorm:"primaryKey;autoIncrement:false"`
	AggregateID   string `gorm:"type:uuid;not null"`
	EventID       string `gorm:"type:uuid;uniqueIndex"`
	EventName     string `gorm:"type:varchar(64)"`
	Payload       []byte `gorm:"type:jsonb"`
	OccurredAt    time.Time
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	PublishedAt   *time.Time
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

// GormOutboxRepository writes and reads outbox messages.
type GormOutboxRepository struct {
	db   *gorm.DB
	node *snowflake.Node
}

func NewGormOutboxRepository(db *gorm.DB, node *snowflake.Node) *GormOutboxRepository {
	return &GormOutboxRepository{db: db, node: node}
}

// Append serializes events as JSON and inserts them. Called inside the unit of
// work transaction so that events commit together with the aggregate.
func (r *GormOutboxRepository) Append(ctx context.Context, events []kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]MessageDTO, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", event.EventName(), err)
		}
		dtos = append(dtos, MessageDTO{
			ID:            r.node.Generate().Int64(),
			AggregateID:   event.AggregateID().String(),
			EventID:       event.EventID().String(),
			EventName:     event.EventName(),
			Payload:       payload,
			OccurredAt:    event.OccurredAt(),
			NextAttemptAt: event.OccurredAt(),
		})
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// pendingCondition selects due messages that are not queued behind an earlier
// unpublished message of the same aggregate still waiting for its retry.
const pendingCondition = `published_at IS NULL AND next_attempt_at <= ? AND NOT EXISTS (
	SELECT 1 FROM outbox_messages prior
	WHERE prior.aggregate_id = outbox_messages.aggregate_id
		AND prior.published_at IS NULL
		AND prior.id < outbox_messages.id
		AND prior.next_attempt_at > ?)`

// GetPending returns due messages in creation order.
func (r *GormOutboxRepository) GetPending(ctx context.Context, now time.Time, limit int) ([]ports.OutboxMessage, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Where(pendingCondition, now, now).
		Order("id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		messages = append(messages, ports.OutboxMessage{
			ID:            dto.ID,
			AggregateID:   dto.AggregateID,
			EventID:       dto.EventID,
			EventName:     dto.EventName,
			Payload:       dto.Payload,
			OccurredAt:    dto.OccurredAt,
			Attempts:      dto.Attempts,
			NextAttemptAt: dto.NextAttemptAt,
			LastError:     dto.LastError,
		})
	}
	return messages, nil
}

func (r *GormOutboxRepository) MarkPublished(ctx context.Context, id int64, publishedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id = ?", id).
		Update("published_at", publishedAt).Error
}

func (r *GormOutboxRepository) ScheduleRetry(
	ctx context.Context,
	id int64,
	attempts int,
	nextAttemptAt time.Time,
	lastErr string,
) error {
	return r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":        attempts,
			"next_attempt_at": nextAttemptAt,
			"last_error":      lastErr,
		}).Error
}
