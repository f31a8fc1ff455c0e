package port

import (
	"context"
	"errors"

	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
	"github.com/bibbank/cre-underwriting/pkg/events"
)

// ErrNotFound is returned by repositories when no row matches in the tenant.
var ErrNotFound = errors.New("not found")

// ErrConcurrentUpdate is returned when an optimistic lock check fails.
var ErrConcurrentUpdate = errors.New("concurrent update")

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// DealFilter narrows a deal listing.
type DealFilter struct {
	Status valueobject.DealStatus
	Limit  int
	Offset int
}

// DealRepository retrieves deals. Writes go through UnitOfWork.
type DealRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (model.Deal, error)
	List(ctx context.Context, tenantID string, filter DealFilter) ([]model.Deal, int, error)
}

// PropertyFinancialsRepository stores the single financial statement of a deal.
type PropertyFinancialsRepository interface {
	Upsert(ctx context.Context, fin model.PropertyFinancials) error
	FindByDealID(ctx context.Context, tenantID, dealID string) (model.PropertyFinancials, error)
}

// UnderwritingResultRepository retrieves underwriting results. Writes go
// through UnitOfWork.
type UnderwritingResultRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (model.UnderwritingResult, error)
	FindByDealID(ctx context.Context, tenantID, dealID string) ([]model.UnderwritingResult, error)
	LatestPerDeal(ctx context.Context, tenantID string) ([]model.UnderwritingResult, error)
}

// TermSheetRepository retrieves term sheets. Writes go through UnitOfWork.
type TermSheetRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (model.TermSheet, error)
	FindByDealID(ctx context.Context, tenantID, dealID string) ([]model.TermSheet, error)
	NextVersion(ctx context.Context, tenantID, dealID string) (int, error)
}

// ---------------------------------------------------------------------------
// Transactional ports
// ---------------------------------------------------------------------------

// UnitOfWork persists aggregates together with their domain events in one
// transaction so the outbox never disagrees with the tables.
type UnitOfWork interface {
	SaveUnderwriting(ctx context.Context, result model.UnderwritingResult, deal model.Deal) error
	SaveTermSheet(ctx context.Context, sheet model.TermSheet, deal model.Deal) error
	SaveDeal(ctx context.Context, deal model.Deal) error
}

// OutboxStore reads and acknowledges outbox rows.
type OutboxStore = events.OutboxRepository

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes relayed outbox messages to external consumers.
type EventPublisher interface {
	PublishOutbox(ctx context.Context, entries ...events.OutboxEntry) error
}

// ---------------------------------------------------------------------------
// Supporting ports
// ---------------------------------------------------------------------------

// ResultCache is a read-through cache for underwriting results.
type ResultCache interface {
	Get(ctx context.Context, tenantID, id string) (model.UnderwritingResult, bool, error)
	Put(ctx context.Context, result model.UnderwritingResult) error
}

// DecisionRecorder records underwriting outcomes as metrics.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, decision valueobject.Decision, rating valueobject.RiskRating, dscr float64)
}

// DocumentRenderer renders a term sheet into a standalone document.
type DocumentRenderer interface {
	RenderTermSheet(sheet model.TermSheet, deal model.Deal) ([]byte, error)
}
