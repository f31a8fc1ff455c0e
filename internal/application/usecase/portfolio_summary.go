package usecase

import (
	"context"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
)

// PortfolioSummaryUseCase summarises the latest underwriting of every deal in a tenant.
type PortfolioSummaryUseCase struct {
	results port.UnderwritingResultRepository
}

// NewPortfolioSummaryUseCase wires dependencies.
func NewPortfolioSummaryUseCase(results port.UnderwritingResultRepository) *PortfolioSummaryUseCase {
	return &PortfolioSummaryUseCase{results: results}
}

// Execute counts decisions and risk ratings and describes the DSCR and LTV spread.
func (uc *PortfolioSummaryUseCase) Execute(ctx context.Context, tenantID string) (dto.PortfolioSummaryResponse, error) {
	latest, err := uc.results.LatestPerDeal(ctx, tenantID)
	if err != nil {
		return dto.PortfolioSummaryResponse{}, fmt.Errorf("load latest results: %w", err)
	}

	resp := dto.PortfolioSummaryResponse{
		DealCount:    len(latest),
		ByDecision:   map[string]int{"approve": 0, "conditional": 0, "decline": 0},
		ByRiskRating: map[string]int{"low": 0, "medium": 0, "high": 0, "unacceptable": 0},
	}
	dscr := make([]float64, 0, len(latest))
	ltv := make([]float64, 0, len(latest))
	for _, r := range latest {
		resp.ByDecision[r.Recommendation().Decision.String()]++
		resp.ByRiskRating[r.Risk().Rating.String()]++
		dscr = append(dscr, r.Metrics().DSCR.InexactFloat64())
		ltv = append(ltv, r.Metrics().LTV.InexactFloat64())
	}
	resp.DSCR = describe(dscr)
	resp.LTV = describe(ltv)
	return resp, nil
}

func describe(xs []float64) dto.DistributionSummary {
	if len(xs) == 0 {
		return dto.DistributionSummary{}
	}
	slices.Sort(xs)
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		std = 0
	}
	return dto.DistributionSummary{
		Mean:   mean,
		Median: median(xs),
		StdDev: std,
		Min:    xs[0],
		Max:    xs[len(xs)-1],
	}
}

// median expects sorted input and averages the two middle values for even
// lengths. stat.Quantile's estimators pick one of the middle pair instead.
func median(sorted []float64) float64 {
	n := len(sorted)
	return stat.Mean(sorted[(n-1)/2:n/2+1], nil)
}
