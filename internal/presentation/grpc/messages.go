package grpc

import (
	"time"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
)

// RunUnderwritingRequest asks the service to underwrite a deal.
type RunUnderwritingRequest struct {
	DealID string `json:"deal_id"`
}

// GetUnderwritingResultRequest identifies a stored result.
type GetUnderwritingResultRequest struct {
	ResultID string `json:"result_id"`
}

// ListDealUnderwritingRequest identifies a deal.
type ListDealUnderwritingRequest struct {
	DealID string `json:"deal_id"`
}

// UnderwritingResult is the wire form of a result. Decimals travel as strings
// and absent approved terms as empty strings. LTC is null when the deal has no
// project cost.
type UnderwritingResult struct {
	ID                 string   `json:"id"`
	DealID             string   `json:"deal_id"`
	UnderwriterID      string   `json:"underwriter_id"`
	DSCR               string   `json:"dscr"`
	LTV                string   `json:"ltv"`
	LTC                *string  `json:"ltc"`
	CapRate            string   `json:"cap_rate"`
	NOI                string   `json:"noi"`
	DebtService        string   `json:"debt_service"`
	CashFlow           string   `json:"cash_flow"`
	RiskScore          int32    `json:"risk_score"`
	RiskRating         string   `json:"risk_rating"`
	RiskFactors        []string `json:"risk_factors"`
	Decision           string   `json:"decision"`
	ApprovedAmount     string   `json:"approved_amount,omitempty"`
	ApprovedLTV        string   `json:"approved_ltv,omitempty"`
	ApprovedRate       string   `json:"approved_rate,omitempty"`
	ApprovedTermMonths int32    `json:"approved_term_months,omitempty"`
	Conditions         string   `json:"conditions,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	RunAt              string   `json:"run_at"`
}

// UnderwritingResultResponse wraps a single result.
type UnderwritingResultResponse struct {
	Result *UnderwritingResult `json:"result"`
}

// ListDealUnderwritingResponse lists results newest first.
type ListDealUnderwritingResponse struct {
	Results []*UnderwritingResult `json:"results"`
}

func toUnderwritingResult(r dto.UnderwritingResultResponse) *UnderwritingResult {
	out := &UnderwritingResult{
		ID:            r.ID,
		DealID:        r.DealID,
		UnderwriterID: r.UnderwriterID,
		DSCR:          r.DSCR.String(),
		LTV:           r.LTV.String(),
		CapRate:       r.CapRate.String(),
		NOI:           r.NOI.String(),
		DebtService:   r.DebtService.String(),
		CashFlow:      r.CashFlow.String(),
		RiskScore:     int32(r.RiskScore), //nolint:gosec // bounded score
		RiskRating:    r.RiskRating,
		RiskFactors:   r.RiskFactors,
		Decision:      r.Decision,
		Conditions:    r.Conditions,
		Notes:         r.Notes,
		RunAt:         r.RunAt.UTC().Format(time.RFC3339),
	}
	if r.LTC.Valid {
		ltc := r.LTC.Decimal.String()
		out.LTC = &ltc
	}
	if r.ApprovedAmount.Valid {
		out.ApprovedAmount = r.ApprovedAmount.Decimal.String()
	}
	if r.ApprovedLTV.Valid {
		out.ApprovedLTV = r.ApprovedLTV.Decimal.String()
	}
	if r.ApprovedRate.Valid {
		out.ApprovedRate = r.ApprovedRate.Decimal.String()
	}
	if r.ApprovedTermMonths != nil {
		out.ApprovedTermMonths = int32(*r.ApprovedTermMonths) //nolint:gosec // months
	}
	return out
}
