package postgres

import (
	"context"
	"fmt"

	"github.com/bibbank/cre-underwriting/pkg/events"
	"github.com/bibbank/cre-underwriting/pkg/postgres"
)

// OutboxStore implements events.OutboxRepository over the outbox table.
type OutboxStore struct {
	db postgres.Querier
}

// NewOutboxStore creates a new outbox store backed by PostgreSQL.
func NewOutboxStore(db postgres.Querier) *OutboxStore {
	return &OutboxStore{db: db}
}

// FetchUnpublished returns up to batchSize pending entries, oldest first.
func (s *OutboxStore) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	query := `
		SELECT id, aggregate_id, aggregate_type, event_type, tenant_id, payload, created_at, published_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, batchSize)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var result []events.OutboxEntry
	for rows.Next() {
		var e events.OutboxEntry
		if err := rows.Scan(
			&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType,
			&e.TenantID, &e.Payload, &e.CreatedAt, &e.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// MarkPublished stamps the given entries as delivered.
func (s *OutboxStore) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE outbox SET published_at = now() WHERE id = ANY($1::uuid[]) AND published_at IS NULL`
	if _, err := s.db.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
