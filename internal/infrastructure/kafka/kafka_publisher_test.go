package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cre-underwriting/pkg/events"
	pkgkafka "github.com/bibbank/cre-underwriting/pkg/kafka"
)

type recordingProducer struct {
	topic    string
	messages []pkgkafka.Message
	err      error
	calls    int
}

func (r *recordingProducer) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.topic = topic
	r.messages = append(r.messages, messages...)
	return nil
}

func TestOutboxPublisher_PublishOutbox(t *testing.T) {
	producer := &recordingProducer{}
	pub := NewOutboxPublisher(producer, "underwriting.events", slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := pub.PublishOutbox(context.Background(),
		events.OutboxEntry{
			ID: "evt-1", AggregateID: "deal-1", AggregateType: "Deal",
			EventType: "underwriting.deal.created", TenantID: "tenant-1", Payload: []byte(`{"a":1}`),
		},
		events.OutboxEntry{
			ID: "evt-2", AggregateID: "deal-1", AggregateType: "Deal",
			EventType: "underwriting.deal.status_changed", TenantID: "tenant-1", Payload: []byte(`{"b":2}`),
		},
	)
	require.NoError(t, err)

	assert.Equal(t, "underwriting.events", producer.topic)
	require.Len(t, producer.messages, 2)
	msg := producer.messages[1]
	assert.Equal(t, []byte("deal-1"), msg.Key)
	assert.JSONEq(t, `{"b":2}`, string(msg.Value))
	assert.Equal(t, "evt-2", msg.Headers["event_id"])
	assert.Equal(t, "underwriting.deal.status_changed", msg.Headers["event_type"])
	assert.Equal(t, "tenant-1", msg.Headers["tenant_id"])
}

func TestOutboxPublisher_NoEntriesSkipsProducer(t *testing.T) {
	producer := &recordingProducer{}
	pub := NewOutboxPublisher(producer, "t", slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, pub.PublishOutbox(context.Background()))
	assert.Zero(t, producer.calls)
}

func TestOutboxPublisher_WrapsProducerError(t *testing.T) {
	boom := errors.New("leader not available")
	pub := NewOutboxPublisher(&recordingProducer{err: boom}, "underwriting.events", slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := pub.PublishOutbox(context.Background(), events.OutboxEntry{ID: "evt-1"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "underwriting.events")
}
