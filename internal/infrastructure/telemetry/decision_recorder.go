package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

// DecisionRecorder implements port.DecisionRecorder with OpenTelemetry instruments.
type DecisionRecorder struct {
	decisions metric.Int64Counter
	dscr      metric.Float64Histogram
}

// NewDecisionRecorder registers the underwriting instruments on meter.
func NewDecisionRecorder(meter metric.Meter) (*DecisionRecorder, error) {
	decisions, err := meter.Int64Counter("underwriting.decisions",
		metric.WithDescription("Underwriting runs by decision and risk rating"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create decisions counter: %w", err)
	}
	dscr, err := meter.Float64Histogram("underwriting.dscr",
		metric.WithDescription("Debt service coverage ratio of underwritten deals"),
		metric.WithExplicitBucketBoundaries(0.5, 1.0, 1.1, 1.2, 1.25, 1.5, 2.0, 3.0),
	)
	if err != nil {
		return nil, fmt.Errorf("create dscr histogram: %w", err)
	}
	return &DecisionRecorder{decisions: decisions, dscr: dscr}, nil
}

// RecordDecision counts one underwriting run and observes its DSCR.
func (r *DecisionRecorder) RecordDecision(
	ctx context.Context,
	decision valueobject.Decision,
	rating valueobject.RiskRating,
	dscr float64,
) {
	attrs := metric.WithAttributes(
		attribute.String("decision", decision.String()),
		attribute.String("risk_rating", rating.String()),
	)
	r.decisions.Add(ctx, 1, attrs)
	r.dscr.Record(ctx, dscr, metric.WithAttributes(attribute.String("decision", decision.String())))
}
