package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bibbank/cre-underwriting/internal/domain/event"
	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/pkg/events"
	"github.com/bibbank/cre-underwriting/pkg/postgres"
)

// UnitOfWork implements port.UnitOfWork. Each save writes the aggregates and
// their pending domain events to the outbox in a single transaction.
type UnitOfWork struct {
	db postgres.TxBeginner
}

// NewUnitOfWork creates a unit of work over db, usually a *pgxpool.Pool.
func NewUnitOfWork(db postgres.TxBeginner) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// SaveDeal persists a deal and its events.
func (u *UnitOfWork) SaveDeal(ctx context.Context, deal model.Deal) error {
	return postgres.WithTransaction(ctx, u.db, func(tx pgx.Tx) error {
		if err := saveDeal(ctx, tx, deal); err != nil {
			return err
		}
		return appendOutbox(ctx, tx, deal.DomainEvents())
	})
}

// SaveUnderwriting appends a result and applies the deal's status transition.
func (u *UnitOfWork) SaveUnderwriting(ctx context.Context, result model.UnderwritingResult, deal model.Deal) error {
	return postgres.WithTransaction(ctx, u.db, func(tx pgx.Tx) error {
		if err := insertResult(ctx, tx, result); err != nil {
			return err
		}
		if err := saveDeal(ctx, tx, deal); err != nil {
			return err
		}
		return appendOutbox(ctx, tx, result.DomainEvents(), deal.DomainEvents())
	})
}

// SaveTermSheet inserts a term sheet and applies the deal's status transition.
func (u *UnitOfWork) SaveTermSheet(ctx context.Context, sheet model.TermSheet, deal model.Deal) error {
	return postgres.WithTransaction(ctx, u.db, func(tx pgx.Tx) error {
		if err := insertTermSheet(ctx, tx, sheet); err != nil {
			return err
		}
		if err := saveDeal(ctx, tx, deal); err != nil {
			return err
		}
		return appendOutbox(ctx, tx, sheet.DomainEvents(), deal.DomainEvents())
	})
}

func appendOutbox(ctx context.Context, q postgres.Querier, groups ...[]event.DomainEvent) error {
	query := `
		INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, tenant_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, group := range groups {
		for _, evt := range group {
			entry, err := events.NewOutboxEntry(evt)
			if err != nil {
				return err
			}
			_, err = q.Exec(ctx, query,
				entry.ID, entry.AggregateID, entry.AggregateType, entry.EventType,
				entry.TenantID, entry.Payload, entry.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert outbox entry %s: %w", entry.EventType, err)
			}
		}
	}
	return nil
}
