package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/cre-underwriting/pkg/events"
	pkgkafka "github.com/bibbank/cre-underwriting/pkg/kafka"
)

// Publisher is the subset of *pkgkafka.Producer the relay needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// OutboxPublisher implements port.EventPublisher by writing relayed outbox
// entries to a Kafka topic, keyed by aggregate so a deal's events stay ordered.
type OutboxPublisher struct {
	producer Publisher
	topic    string
	logger   *slog.Logger
}

// NewOutboxPublisher creates a publisher targeting the given producer and topic.
func NewOutboxPublisher(producer Publisher, topic string, logger *slog.Logger) *OutboxPublisher {
	return &OutboxPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// PublishOutbox sends the entries' stored payloads unchanged.
func (p *OutboxPublisher) PublishOutbox(ctx context.Context, entries ...events.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(entries))
	for _, e := range entries {
		p.logger.DebugContext(ctx, "publishing outbox entry",
			"event_type", e.EventType,
			"aggregate_id", e.AggregateID,
			"tenant_id", e.TenantID,
			"topic", p.topic,
			"payload_size", len(e.Payload),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Headers: map[string]string{
				"event_type":     e.EventType,
				"event_id":       e.ID,
				"aggregate_type": e.AggregateType,
				"tenant_id":      e.TenantID,
			},
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}
	return nil
}
