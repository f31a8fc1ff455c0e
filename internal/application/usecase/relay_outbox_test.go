package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cre-underwriting/internal/application/usecase"
	"github.com/bibbank/cre-underwriting/pkg/events"
)

func pendingEntries(n int) []events.OutboxEntry {
	out := make([]events.OutboxEntry, 0, n)
	for i := range n {
		out = append(out, events.OutboxEntry{
			ID:          fmt.Sprintf("evt-%03d", i),
			AggregateID: "deal-1",
			EventType:   "underwriting.deal.status_changed",
			TenantID:    testTenant,
			Payload:     []byte(`{}`),
		})
	}
	return out
}

func TestRelayOutbox_DrainsInBatches(t *testing.T) {
	store := &mockOutboxStore{pending: pendingEntries(5)}
	pub := &mockEventPublisher{}
	uc := usecase.NewRelayOutboxUseCase(store, pub, 2, discardLogger())

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Published)
	assert.Len(t, pub.published, 5)
	assert.Len(t, store.marked, 5)
	assert.Empty(t, store.pending)
	assert.Equal(t, "evt-000", store.marked[0])
}

func TestRelayOutbox_EmptyOutbox(t *testing.T) {
	uc := usecase.NewRelayOutboxUseCase(&mockOutboxStore{}, &mockEventPublisher{}, 0, discardLogger())

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resp.Published)
}

func TestRelayOutbox_PublishFailureLeavesRowsPending(t *testing.T) {
	store := &mockOutboxStore{pending: pendingEntries(3)}
	pub := &mockEventPublisher{err: errors.New("broker unavailable")}
	uc := usecase.NewRelayOutboxUseCase(store, pub, 10, discardLogger())

	resp, err := uc.Execute(context.Background())
	require.Error(t, err)
	assert.Zero(t, resp.Published)
	assert.Empty(t, store.marked)
	assert.Len(t, store.pending, 3)
}

func TestRelayOutbox_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &mockOutboxStore{pending: pendingEntries(3)}
	_, err := usecase.NewRelayOutboxUseCase(store, &mockEventPublisher{}, 10, discardLogger()).Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, store.pending, 3)
}
