package event

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/cre-underwriting/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	TypeDealCreated          = "underwriting.deal.created"
	TypeDealStatusChanged    = "underwriting.deal.status_changed"
	TypeUnderwritingComplete = "underwriting.result.completed"
	TypeTermSheetGenerated   = "underwriting.term_sheet.generated"
)

// ---------------------------------------------------------------------------
// Deal Events
// ---------------------------------------------------------------------------

// DealCreated is raised when a deal enters intake.
type DealCreated struct {
	events.BaseEvent
	DealName   string          `json:"deal_name"`
	LoanAmount decimal.Decimal `json:"loan_amount"`
	AssetType  string          `json:"asset_type"`
}

func NewDealCreated(dealID, tenantID, dealName string, loanAmount decimal.Decimal, assetType string) DealCreated {
	return DealCreated{
		BaseEvent:  events.NewBaseEvent(TypeDealCreated, dealID, "Deal", tenantID),
		DealName:   dealName,
		LoanAmount: loanAmount,
		AssetType:  assetType,
	}
}

// DealStatusChanged is raised on every workflow transition of a deal.
type DealStatusChanged struct {
	events.BaseEvent
	From string `json:"from"`
	To   string `json:"to"`
}

func NewDealStatusChanged(dealID, tenantID, from, to string) DealStatusChanged {
	return DealStatusChanged{
		BaseEvent: events.NewBaseEvent(TypeDealStatusChanged, dealID, "Deal", tenantID),
		From:      from,
		To:        to,
	}
}

// ---------------------------------------------------------------------------
// Underwriting Events
// ---------------------------------------------------------------------------

// UnderwritingCompleted is raised when an underwriting run has been recorded.
type UnderwritingCompleted struct {
	events.BaseEvent
	DealID     string          `json:"deal_id"`
	Decision   string          `json:"decision"`
	RiskRating string          `json:"risk_rating"`
	RiskScore  int             `json:"risk_score"`
	DSCR       decimal.Decimal `json:"dscr"`
	LTV        decimal.Decimal `json:"ltv"`
}

func NewUnderwritingCompleted(
	resultID, tenantID, dealID, decision, riskRating string,
	riskScore int, dscr, ltv decimal.Decimal,
) UnderwritingCompleted {
	return UnderwritingCompleted{
		BaseEvent:  events.NewBaseEvent(TypeUnderwritingComplete, resultID, "UnderwritingResult", tenantID),
		DealID:     dealID,
		Decision:   decision,
		RiskRating: riskRating,
		RiskScore:  riskScore,
		DSCR:       dscr,
		LTV:        ltv,
	}
}

// ---------------------------------------------------------------------------
// Term Sheet Events
// ---------------------------------------------------------------------------

// TermSheetGenerated is raised when a new term sheet version is drafted.
type TermSheetGenerated struct {
	events.BaseEvent
	DealID       string          `json:"deal_id"`
	Version      int             `json:"version"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TermMonths   int             `json:"term_months"`
}

func NewTermSheetGenerated(
	termSheetID, tenantID, dealID string, version int,
	loanAmount, interestRate decimal.Decimal, termMonths int,
) TermSheetGenerated {
	return TermSheetGenerated{
		BaseEvent:    events.NewBaseEvent(TypeTermSheetGenerated, termSheetID, "TermSheet", tenantID),
		DealID:       dealID,
		Version:      version,
		LoanAmount:   loanAmount,
		InterestRate: interestRate,
		TermMonths:   termMonths,
	}
}
