package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/cre-underwriting/internal/domain/event"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

// UnderwritingResult records one engine run against a deal. It is never
// modified once created; re-running underwriting creates a new result.
type UnderwritingResult struct {
	id             string
	tenantID       string
	dealID         string
	underwriterID  string
	metrics        valueobject.Metrics
	risk           valueobject.RiskAssessment
	recommendation valueobject.Recommendation
	createdAt      time.Time
	domainEvents   []event.DomainEvent
}

// NewUnderwritingResult captures an engine evaluation and emits UnderwritingCompleted.
func NewUnderwritingResult(
	tenantID, dealID, underwriterID string,
	metrics valueobject.Metrics,
	risk valueobject.RiskAssessment,
	recommendation valueobject.Recommendation,
	now time.Time,
) (UnderwritingResult, error) {
	if tenantID == "" {
		return UnderwritingResult{}, errors.New("tenant ID is required")
	}
	if dealID == "" {
		return UnderwritingResult{}, errors.New("deal ID is required")
	}
	if recommendation.Decision.IsZero() {
		return UnderwritingResult{}, errors.New("decision is required")
	}

	id := uuid.New().String()
	r := UnderwritingResult{
		id:             id,
		tenantID:       tenantID,
		dealID:         dealID,
		underwriterID:  underwriterID,
		metrics:        metrics,
		risk:           risk,
		recommendation: recommendation,
		createdAt:      now,
	}
	r.domainEvents = append(r.domainEvents, event.NewUnderwritingCompleted(
		id, tenantID, dealID,
		recommendation.Decision.String(), risk.Rating.String(),
		risk.Score, metrics.DSCR, metrics.LTV,
	))
	return r, nil
}

// ReconstructUnderwritingResult rebuilds a result from persistence or cache.
func ReconstructUnderwritingResult(
	id, tenantID, dealID, underwriterID string,
	metrics valueobject.Metrics,
	risk valueobject.RiskAssessment,
	recommendation valueobject.Recommendation,
	createdAt time.Time,
) UnderwritingResult {
	return UnderwritingResult{
		id:             id,
		tenantID:       tenantID,
		dealID:         dealID,
		underwriterID:  underwriterID,
		metrics:        metrics,
		risk:           risk,
		recommendation: recommendation,
		createdAt:      createdAt,
	}
}

func (r UnderwritingResult) ID() string                                 { return r.id }
func (r UnderwritingResult) TenantID() string                           { return r.tenantID }
func (r UnderwritingResult) DealID() string                             { return r.dealID }
func (r UnderwritingResult) UnderwriterID() string                      { return r.underwriterID }
func (r UnderwritingResult) Metrics() valueobject.Metrics               { return r.metrics }
func (r UnderwritingResult) Risk() valueobject.RiskAssessment           { return r.risk }
func (r UnderwritingResult) Recommendation() valueobject.Recommendation { return r.recommendation }
func (r UnderwritingResult) CreatedAt() time.Time                       { return r.createdAt }
func (r UnderwritingResult) DomainEvents() []event.DomainEvent          { return r.domainEvents }
