//go:build integration

package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cre-underwriting/pkg/events"
	pkgkafka "github.com/bibbank/cre-underwriting/pkg/kafka"
	"github.com/bibbank/cre-underwriting/pkg/testutil"
)

func TestOutboxPublisher_DeliversToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	const topic = "underwriting.events"
	kc := testutil.StartKafka(ctx, t)
	kc.CreateTopic(ctx, t, topic)

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{Brokers: kc.Brokers})
	require.NoError(t, err)
	t.Cleanup(func() { _ = producer.Close() })

	pub := NewOutboxPublisher(producer, topic, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err = pub.PublishOutbox(ctx, events.OutboxEntry{
		ID:            "6f1c9a52-8a4e-4a7e-9a3f-0d7c2b9e1a10",
		AggregateID:   "deal-7",
		AggregateType: "Deal",
		EventType:     "underwriting.result.completed",
		TenantID:      testutil.TestTenantID.String(),
		Payload:       []byte(`{"decision":"approve"}`),
	})
	require.NoError(t, err)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   kc.Brokers,
		Topic:     topic,
		Partition: 0,
		MaxWait:   500 * time.Millisecond,
	})
	t.Cleanup(func() { _ = reader.Close() })

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "deal-7", string(msg.Key))
	assert.JSONEq(t, `{"decision":"approve"}`, string(msg.Value))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "underwriting.result.completed", headers["event_type"])
	assert.Equal(t, testutil.TestTenantID.String(), headers["tenant_id"])
}
