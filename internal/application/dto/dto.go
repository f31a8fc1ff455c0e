package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateDealRequest carries the data needed to open a new deal.
type CreateDealRequest struct {
	TenantID             string          `json:"-"`
	UserID               string          `json:"-"`
	DealName             string          `json:"deal_name"`
	BorrowerName         string          `json:"borrower_name,omitempty"`
	LoanAmount           decimal.Decimal `json:"loan_amount"`
	AssetType            string          `json:"asset_type"`
	LoanPurpose          string          `json:"loan_purpose"`
	LoanType             string          `json:"loan_type"`
	PropertyAddressLine1 string          `json:"property_address_line1,omitempty"`
	PropertyCity         string          `json:"property_city,omitempty"`
	PropertyState        string          `json:"property_state,omitempty"`
	PropertyZipCode      string          `json:"property_zip_code,omitempty"`
}

// GetDealRequest identifies a deal to retrieve.
type GetDealRequest struct {
	TenantID string
	DealID   string
}

// ListDealsRequest pages through a tenant's deals.
type ListDealsRequest struct {
	TenantID string
	Status   string
	Limit    int
	Offset   int
}

// UpsertFinancialsRequest carries raw financial amounts for a deal. Amounts are
// strings so that parsing happens in one place with defined fallbacks.
type UpsertFinancialsRequest struct {
	TenantID           string
	DealID             string
	NetOperatingIncome string
	AnnualDebtService  string
	PurchasePrice      string
	AppraisedValue     string
	TotalProjectCost   string
}

// RunUnderwritingRequest identifies the deal to underwrite.
type RunUnderwritingRequest struct {
	TenantID      string
	UnderwriterID string
	DealID        string
}

// GetUnderwritingRequest identifies an underwriting result.
type GetUnderwritingRequest struct {
	TenantID string
	ResultID string
}

// ListDealUnderwritingRequest identifies a deal whose results are listed.
type ListDealUnderwritingRequest struct {
	TenantID string
	DealID   string
}

// CreateTermSheetRequest carries the offered terms for a deal.
type CreateTermSheetRequest struct {
	TenantID           string
	UserID             string
	DealID             string
	LoanAmount         decimal.Decimal
	InterestRate       decimal.Decimal
	TermMonths         int
	AmortizationMonths *int
	LTV                decimal.NullDecimal
	RecourseType       string
	PrepaymentPenalty  string
	OriginationFee     decimal.NullDecimal
	Conditions         string
	ExpirationDate     *time.Time
}

// GetTermSheetRequest identifies a term sheet.
type GetTermSheetRequest struct {
	TenantID    string
	TermSheetID string
}

// ListDealTermSheetsRequest identifies a deal whose term sheets are listed.
type ListDealTermSheetsRequest struct {
	TenantID string
	DealID   string
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// DealResponse is the external representation of a deal.
type DealResponse struct {
	ID                   string          `json:"id"`
	TenantID             string          `json:"org_id"`
	DealName             string          `json:"deal_name"`
	BorrowerName         string          `json:"borrower_name,omitempty"`
	LoanAmount           decimal.Decimal `json:"loan_amount"`
	AssetType            string          `json:"asset_type"`
	LoanPurpose          string          `json:"loan_purpose"`
	LoanType             string          `json:"loan_type"`
	PropertyAddressLine1 string          `json:"property_address_line1,omitempty"`
	PropertyCity         string          `json:"property_city,omitempty"`
	PropertyState        string          `json:"property_state,omitempty"`
	PropertyZipCode      string          `json:"property_zip_code,omitempty"`
	Status               string          `json:"status"`
	CreatedBy            string          `json:"created_by,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// DealListResponse is one page of deals.
type DealListResponse struct {
	Deals  []DealResponse `json:"deals"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// PropertyFinancialsResponse is the stored financial statement of a deal.
type PropertyFinancialsResponse struct {
	DealID             string              `json:"deal_id"`
	NetOperatingIncome decimal.Decimal     `json:"net_operating_income"`
	AnnualDebtService  decimal.Decimal     `json:"annual_debt_service"`
	PurchasePrice      decimal.NullDecimal `json:"purchase_price"`
	AppraisedValue     decimal.NullDecimal `json:"appraised_value"`
	TotalProjectCost   decimal.NullDecimal `json:"total_project_cost"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// UnderwritingResultResponse is the full underwriting payload. Nullable fields
// serialise as JSON null.
type UnderwritingResultResponse struct {
	ID                 string              `json:"id"`
	TenantID           string              `json:"org_id"`
	DealID             string              `json:"deal_id"`
	UnderwriterID      string              `json:"underwriter_id"`
	DSCR               decimal.Decimal     `json:"dscr"`
	LTV                decimal.Decimal     `json:"ltv"`
	LTC                decimal.NullDecimal `json:"ltc"`
	CapRate            decimal.Decimal     `json:"cap_rate"`
	NOI                decimal.Decimal     `json:"noi"`
	DebtService        decimal.Decimal     `json:"debt_service"`
	CashFlow           decimal.Decimal     `json:"cash_flow"`
	RiskScore          int                 `json:"risk_score"`
	RiskRating         string              `json:"risk_rating"`
	RiskFactors        []string            `json:"risk_factors"`
	Decision           string              `json:"decision"`
	ApprovedAmount     decimal.NullDecimal `json:"approved_amount"`
	ApprovedLTV        decimal.NullDecimal `json:"approved_ltv"`
	ApprovedRate       decimal.NullDecimal `json:"approved_rate"`
	ApprovedTermMonths *int                `json:"approved_term_months"`
	Conditions         string              `json:"conditions"`
	Notes              string              `json:"notes"`
	RunAt              time.Time           `json:"run_at"`
}

// AmortizationEntryResponse represents a single amortization schedule entry.
type AmortizationEntryResponse struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Total            decimal.Decimal `json:"total"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// TermSheetResponse is the external representation of a term sheet.
type TermSheetResponse struct {
	ID                 string                      `json:"id"`
	TenantID           string                      `json:"org_id"`
	DealID             string                      `json:"deal_id"`
	Version            int                         `json:"version"`
	LoanAmount         decimal.Decimal             `json:"loan_amount"`
	InterestRate       decimal.Decimal             `json:"interest_rate"`
	TermMonths         int                         `json:"term_months"`
	AmortizationMonths *int                        `json:"amortization_months"`
	LTV                decimal.NullDecimal         `json:"ltv"`
	RecourseType       string                      `json:"recourse_type"`
	PrepaymentPenalty  *string                     `json:"prepayment_penalty"`
	OriginationFee     decimal.Decimal             `json:"origination_fee"`
	Conditions         *string                     `json:"conditions"`
	ExpirationDate     *time.Time                  `json:"expiration_date"`
	Status             string                      `json:"status"`
	GeneratedBy        string                      `json:"generated_by"`
	CreatedAt          time.Time                   `json:"created_at"`
	Schedule           []AmortizationEntryResponse `json:"payment_schedule,omitempty"`
}

// DistributionSummary describes the spread of one metric across deals.
type DistributionSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// PortfolioSummaryResponse aggregates the latest underwriting result of each deal.
type PortfolioSummaryResponse struct {
	DealCount    int                 `json:"deal_count"`
	ByDecision   map[string]int      `json:"by_decision"`
	ByRiskRating map[string]int      `json:"by_risk_rating"`
	DSCR         DistributionSummary `json:"dscr"`
	LTV          DistributionSummary `json:"ltv"`
}

// RelayOutboxResponse reports one relay pass.
type RelayOutboxResponse struct {
	Published int `json:"published"`
}
