package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/cre-underwriting/internal/domain/event"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Deal aggregate root
// ---------------------------------------------------------------------------

// PropertyAddress locates the collateral.
type PropertyAddress struct {
	Line1   string
	City    string
	State   string
	ZipCode string
}

// DealDetails are the caller-supplied attributes of a new deal.
type DealDetails struct {
	DealName     string
	BorrowerName string
	LoanAmount   decimal.Decimal
	AssetType    string
	LoanPurpose  string
	LoanType     string
	Property     PropertyAddress
}

// Deal is an immutable aggregate. Every mutation returns a new copy.
type Deal struct {
	id           string
	tenantID     string
	createdBy    string
	details      DealDetails
	status       valueobject.DealStatus
	version      int
	createdAt    time.Time
	updatedAt    time.Time
	domainEvents []event.DomainEvent
}

// NewDeal creates a deal in intake status.
func NewDeal(tenantID, createdBy string, details DealDetails, now time.Time) (Deal, error) {
	if tenantID == "" {
		return Deal{}, errors.New("tenant ID is required")
	}
	if details.DealName == "" {
		return Deal{}, errors.New("deal name is required")
	}
	if !details.LoanAmount.IsPositive() {
		return Deal{}, errors.New("loan amount must be positive")
	}
	if details.AssetType == "" {
		return Deal{}, errors.New("asset type is required")
	}

	id := uuid.New().String()
	d := Deal{
		id:        id,
		tenantID:  tenantID,
		createdBy: createdBy,
		details:   details,
		status:    valueobject.DealStatusIntake,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}
	d.domainEvents = append(d.domainEvents, event.NewDealCreated(
		id, tenantID, details.DealName, details.LoanAmount, details.AssetType,
	))
	return d, nil
}

// ReconstructDeal rebuilds a deal from persistence without side-effects.
func ReconstructDeal(
	id, tenantID, createdBy string,
	details DealDetails,
	status valueobject.DealStatus,
	version int,
	createdAt, updatedAt time.Time,
) Deal {
	return Deal{
		id:        id,
		tenantID:  tenantID,
		createdBy: createdBy,
		details:   details,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// RecordUnderwriting moves the deal to approved when the decision is approve
// and to underwriting otherwise. Any deal can be re-underwritten until it is
// closed.
func (d Deal) RecordUnderwriting(decision valueobject.Decision, now time.Time) (Deal, error) {
	if d.status.Equal(valueobject.DealStatusClosed) {
		return d, valueobject.ErrInvalidStatusTransition
	}

	target := valueobject.DealStatusUnderwriting
	if decision.Equal(valueobject.DecisionApprove) {
		target = valueobject.DealStatusApproved
	}
	return d.transition(target, now), nil
}

// MarkTermSheetSent moves the deal to term_sheet_sent once a term sheet exists.
func (d Deal) MarkTermSheetSent(now time.Time) (Deal, error) {
	switch d.status {
	case valueobject.DealStatusUnderwriting, valueobject.DealStatusApproved, valueobject.DealStatusTermSheetSent:
	default:
		return d, valueobject.ErrInvalidStatusTransition
	}
	return d.transition(valueobject.DealStatusTermSheetSent, now), nil
}

func (d Deal) transition(to valueobject.DealStatus, now time.Time) Deal {
	next := d
	next.updatedAt = now
	next.domainEvents = copyEvents(d.domainEvents)
	if d.status.Equal(to) {
		return next
	}
	next.status = to
	next.domainEvents = append(next.domainEvents, event.NewDealStatusChanged(
		d.id, d.tenantID, d.status.String(), to.String(),
	))
	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (d Deal) ID() string                        { return d.id }
func (d Deal) TenantID() string                  { return d.tenantID }
func (d Deal) CreatedBy() string                 { return d.createdBy }
func (d Deal) Details() DealDetails              { return d.details }
func (d Deal) DealName() string                  { return d.details.DealName }
func (d Deal) LoanAmount() decimal.Decimal       { return d.details.LoanAmount }
func (d Deal) Status() valueobject.DealStatus    { return d.status }
func (d Deal) Version() int                      { return d.version }
func (d Deal) CreatedAt() time.Time              { return d.createdAt }
func (d Deal) UpdatedAt() time.Time              { return d.updatedAt }
func (d Deal) DomainEvents() []event.DomainEvent { return d.domainEvents }

// Terms returns the inputs the underwriting engine reads from the deal.
func (d Deal) Terms() valueobject.DealTerms {
	return valueobject.DealTerms{
		LoanAmount:  d.details.LoanAmount,
		AssetType:   d.details.AssetType,
		LoanPurpose: d.details.LoanPurpose,
	}
}

// ClearEvents returns a copy with an empty event list (call after publishing).
func (d Deal) ClearEvents() Deal {
	next := d
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
