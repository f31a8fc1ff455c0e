package service

import (
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// UnderwritingEngine – domain service for commercial real estate underwriting
// ---------------------------------------------------------------------------

// Evaluation is the full engine output for one deal.
type Evaluation struct {
	Metrics        valueobject.Metrics
	Risk           valueobject.RiskAssessment
	Recommendation valueobject.Recommendation
}

// UnderwritingEngine composes metrics, risk and recommendation. It holds no
// state and is safe for concurrent use.
type UnderwritingEngine struct{}

// NewUnderwritingEngine returns a new engine instance.
func NewUnderwritingEngine() *UnderwritingEngine {
	return &UnderwritingEngine{}
}

// Evaluate runs the three stages against a single snapshot of deal and financials.
func (e *UnderwritingEngine) Evaluate(
	deal valueobject.DealTerms,
	fin valueobject.FinancialStatement,
) Evaluation {
	metrics := ComputeMetrics(deal, fin)
	risk := AssessRisk(metrics, deal)
	return Evaluation{
		Metrics:        metrics,
		Risk:           risk,
		Recommendation: GenerateRecommendation(metrics, risk),
	}
}
