package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
)

// RelayOutboxUseCase forwards committed domain events to the broker.
type RelayOutboxUseCase struct {
	outbox    port.OutboxStore
	publisher port.EventPublisher
	batchSize int
	logger    *slog.Logger
}

// NewRelayOutboxUseCase wires dependencies. batchSize caps rows per fetch.
func NewRelayOutboxUseCase(
	outbox port.OutboxStore,
	publisher port.EventPublisher,
	batchSize int,
	logger *slog.Logger,
) *RelayOutboxUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &RelayOutboxUseCase{outbox: outbox, publisher: publisher, batchSize: batchSize, logger: logger}
}

// Execute drains the outbox batch by batch until it is empty or a step fails.
// Rows are marked published only after the broker accepted them, so delivery
// is at least once.
func (uc *RelayOutboxUseCase) Execute(ctx context.Context) (dto.RelayOutboxResponse, error) {
	var resp dto.RelayOutboxResponse
	for {
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		entries, err := uc.outbox.FetchUnpublished(ctx, uc.batchSize)
		if err != nil {
			return resp, fmt.Errorf("fetch outbox: %w", err)
		}
		if len(entries) == 0 {
			return resp, nil
		}

		if err := uc.publisher.PublishOutbox(ctx, entries...); err != nil {
			return resp, fmt.Errorf("publish outbox batch: %w", err)
		}

		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		if err := uc.outbox.MarkPublished(ctx, ids); err != nil {
			return resp, fmt.Errorf("mark outbox published: %w", err)
		}
		resp.Published += len(entries)
		uc.logger.Debug("outbox batch relayed", "count", len(entries))

		if len(entries) < uc.batchSize {
			return resp, nil
		}
	}
}
