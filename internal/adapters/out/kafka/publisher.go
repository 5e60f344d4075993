// Package kafka publishes outbox messages to a Kafka topic.
package kafka

import (
	"context"
	"strconv"
	"time"

	"orderservice/internal/core/ports"

	kafkago "github.com/segmentio/kafka-go"
)

// Header keys set on every published message.
const (
	HeaderEventName  = "event-name"
	HeaderEventID    = "event-id"
	HeaderOccurredAt = "occurred-at"
	HeaderOutboxID   = "outbox-id"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Publisher implements ports.MessagePublisher. Messages are keyed by aggregate
// id, so all events of one order land on one partition in order.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// NewWriter configures a synchronous writer that hashes keys onto partitions.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

func (p *Publisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(msg.AggregateID),
		Value: msg.Payload,
		Time:  msg.OccurredAt,
		Headers: []kafkago.Header{
			{Key: HeaderEventName, Value: []byte(msg.EventName)},
			{Key: HeaderEventID, Value: []byte(msg.EventID)},
			{Key: HeaderOccurredAt, Value: []byte(msg.OccurredAt.UTC().Format(time.RFC3339Nano))},
			{Key: HeaderOutboxID, Value: []byte(strconv.FormatInt(msg.ID, 10))},
		},
	})
}
