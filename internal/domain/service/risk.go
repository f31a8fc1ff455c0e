package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

// Risk factor descriptions, in evaluation order.
const (
	FactorDSCRBelow1       = "DSCR below 1.0 - insufficient cash flow to cover debt service"
	FactorDSCRBelow12      = "DSCR below 1.2 - minimal debt service coverage"
	FactorDSCRBelow135     = "DSCR below 1.35 - adequate but not strong coverage"
	FactorDSCRStrong       = "Strong DSCR - excellent debt service coverage"
	FactorLTVAbove85       = "LTV above 85% - high leverage"
	FactorLTVAbove80       = "LTV above 80% - elevated leverage"
	FactorLTVAbove75       = "LTV above 75% - moderate leverage"
	FactorLTVConservative  = "Conservative LTV - strong equity cushion"
	FactorCapRateLow       = "Cap rate below 4% - verify market comparables"
	FactorCapRateHigh      = "Cap rate above 12% - may indicate distressed asset or high-risk market"
	FactorNegativeCashFlow = "Negative cash flow - property does not generate positive returns"
	FactorLowCashFlow      = "Low cash flow - limited buffer for unexpected expenses"
	FactorHighDollarLoan   = "High-dollar loan - requires senior underwriter review"
)

var (
	dscr1               = decimal.NewFromInt(1)
	dscr12              = decimal.RequireFromString("1.2")
	dscr135             = decimal.RequireFromString("1.35")
	ltv75               = decimal.NewFromInt(75)
	ltv80               = decimal.NewFromInt(80)
	ltv85               = decimal.NewFromInt(85)
	capRateFloor        = decimal.NewFromInt(4)
	capRateCeiling      = decimal.NewFromInt(12)
	lowCashFlow         = decimal.NewFromInt(50_000)
	highDollarThreshold = decimal.NewFromInt(1_000_000)
)

type riskAccumulator struct {
	score   int
	factors []string
}

func (a *riskAccumulator) add(points int, factor string) {
	a.score += points
	a.factors = append(a.factors, factor)
}

// AssessRisk scores the rounded metrics against the DSCR, LTV, cap rate, cash
// flow and loan size rules, in that order. The loan size rule reads the
// deal's loan amount directly.
func AssessRisk(m valueobject.Metrics, deal valueobject.DealTerms) valueobject.RiskAssessment {
	acc := riskAccumulator{factors: make([]string, 0, 5)}

	switch {
	case m.DSCR.LessThan(dscr1):
		acc.add(40, FactorDSCRBelow1)
	case m.DSCR.LessThan(dscr12):
		acc.add(25, FactorDSCRBelow12)
	case m.DSCR.LessThan(dscr135):
		acc.add(10, FactorDSCRBelow135)
	default:
		acc.add(0, FactorDSCRStrong)
	}

	switch {
	case m.LTV.GreaterThan(ltv85):
		acc.add(30, FactorLTVAbove85)
	case m.LTV.GreaterThan(ltv80):
		acc.add(20, FactorLTVAbove80)
	case m.LTV.GreaterThan(ltv75):
		acc.add(10, FactorLTVAbove75)
	default:
		acc.add(0, FactorLTVConservative)
	}

	switch {
	case m.CapRate.LessThan(capRateFloor):
		acc.add(15, FactorCapRateLow)
	case m.CapRate.GreaterThan(capRateCeiling):
		acc.add(20, FactorCapRateHigh)
	}

	switch {
	case m.CashFlow.IsNegative():
		acc.add(35, FactorNegativeCashFlow)
	case m.CashFlow.LessThan(lowCashFlow):
		acc.add(10, FactorLowCashFlow)
	}

	if deal.LoanAmount.GreaterThan(highDollarThreshold) {
		acc.add(5, FactorHighDollarLoan)
	}

	return valueobject.RiskAssessment{
		Score:   acc.score,
		Rating:  valueobject.RiskRatingForScore(acc.score),
		Factors: acc.factors,
	}
}
