package service

import (
	"fmt"
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

const (
	ApproveConditions = "Subject to: (1) Updated appraisal, (2) Environmental Phase I report, " +
		"(3) Proof of property insurance, (4) Satisfactory title report"
	ConditionalConditions = "Conditional approval subject to: (1) Personal guarantee from sponsor, " +
		"(2) Additional equity injection to reduce LTV to 75%, (3) Rent roll verification, " +
		"(4) All standard conditions"
)

// DefaultTermMonths is the term offered on approve and conditional decisions.
const DefaultTermMonths = 24

var (
	approveMultiplier     = decimal.NewFromInt(10)
	conditionalMultiplier = decimal.NewFromInt(8)
	approveRate           = decimal.RequireFromString("8.25")
	conditionalRate       = decimal.RequireFromString("9.0")
	conditionalMinDSCR    = decimal.RequireFromString("1.15")
)

// GenerateRecommendation turns metrics and risk into a decision. Branches are
// tried in order: approve, conditional, decline.
func GenerateRecommendation(m valueobject.Metrics, risk valueobject.RiskAssessment) valueobject.Recommendation {
	if m.DSCR.GreaterThanOrEqual(dscr12) &&
		m.LTV.LessThanOrEqual(ltv80) &&
		m.CashFlow.IsPositive() &&
		!risk.Rating.Equal(valueobject.RiskRatingUnacceptable) {
		return valueobject.Recommendation{
			Decision:           valueobject.DecisionApprove,
			ApprovedAmount:     decimal.NewNullDecimal(m.NetOperatingIncome.Mul(approveMultiplier)),
			ApprovedLTV:        decimal.NewNullDecimal(m.LTV),
			ApprovedRate:       decimal.NewNullDecimal(approveRate),
			ApprovedTermMonths: termMonths(),
			Conditions:         ApproveConditions,
			Notes: fmt.Sprintf(
				"Strong deal with DSCR of %s and LTV of %s%%. Recommend approval at requested terms.",
				m.DSCR, m.LTV,
			),
		}
	}

	if m.DSCR.GreaterThanOrEqual(conditionalMinDSCR) &&
		m.LTV.LessThanOrEqual(ltv85) &&
		risk.Rating.Equal(valueobject.RiskRatingMedium) {
		return valueobject.Recommendation{
			Decision:           valueobject.DecisionConditional,
			ApprovedAmount:     decimal.NewNullDecimal(m.NetOperatingIncome.Mul(conditionalMultiplier)),
			ApprovedLTV:        decimal.NewNullDecimal(decimal.Min(m.LTV, ltv75)),
			ApprovedRate:       decimal.NewNullDecimal(conditionalRate),
			ApprovedTermMonths: termMonths(),
			Conditions:         ConditionalConditions,
			Notes: fmt.Sprintf(
				"Marginal deal with DSCR of %s. Recommend conditional approval with enhanced terms.",
				m.DSCR,
			),
		}
	}

	return valueobject.Recommendation{
		Decision: valueobject.DecisionDecline,
		Notes: fmt.Sprintf(
			"Deal does not meet minimum underwriting criteria. DSCR: %s (min 1.2), LTV: %s%% (max 80%%), "+
				"Cash Flow: $%s. Risk Rating: %s.",
			m.DSCR, m.LTV, commaAmount(m.CashFlow), risk.Rating,
		),
	}
}

func termMonths() *int {
	n := DefaultTermMonths
	return &n
}

// commaAmount formats d with thousands separators without passing through float64.
func commaAmount(d decimal.Decimal) string {
	f, _ := new(big.Float).SetPrec(256).SetString(d.String())
	return humanize.BigCommaf(f)
}
