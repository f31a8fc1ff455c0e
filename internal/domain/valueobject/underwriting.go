package valueobject

import "github.com/shopspring/decimal"

// Metrics are the financial ratios computed for a deal. Ratios are rounded to
// two decimal places; NOI and debt service are carried at source precision.
type Metrics struct {
	DSCR               decimal.Decimal
	LTV                decimal.Decimal
	LTC                decimal.NullDecimal
	CapRate            decimal.Decimal
	CashFlow           decimal.Decimal
	NetOperatingIncome decimal.Decimal
	AnnualDebtService  decimal.Decimal
}

// RiskAssessment is the accumulated risk score, its rating and the ordered
// factor descriptions that produced it.
type RiskAssessment struct {
	Score   int
	Rating  RiskRating
	Factors []string
}

// Recommendation is the decision plus synthesized terms. The approved terms
// are only set for approve and conditional decisions.
type Recommendation struct {
	Decision           Decision
	ApprovedAmount     decimal.NullDecimal
	ApprovedLTV        decimal.NullDecimal
	ApprovedRate       decimal.NullDecimal
	ApprovedTermMonths *int
	Conditions         string
	Notes              string
}

// HasTerms reports whether the recommendation carries approved terms.
func (r Recommendation) HasTerms() bool {
	return r.ApprovedAmount.Valid
}
