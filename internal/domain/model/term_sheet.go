package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/cre-underwriting/internal/domain/event"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

// DefaultOriginationFee is applied when a term sheet omits the fee (percent).
var DefaultOriginationFee = decimal.NewFromInt(1)

// MaxTermMonths bounds the term and amortization periods of a term sheet.
const MaxTermMonths = 600

var (
	maxInterestRate   = decimal.NewFromInt(30)
	maxOriginationFee = decimal.NewFromInt(10)
	maxLTV            = decimal.NewFromInt(100)
)

// TermSheetTerms are the negotiable terms offered on a deal.
type TermSheetTerms struct {
	LoanAmount         decimal.Decimal
	InterestRate       decimal.Decimal
	TermMonths         int
	AmortizationMonths *int
	LTV                decimal.NullDecimal
	RecourseType       valueobject.RecourseType
	PrepaymentPenalty  string
	OriginationFee     decimal.NullDecimal
	Conditions         string
	ExpirationDate     *time.Time
}

func (t TermSheetTerms) validate() error {
	if !t.LoanAmount.IsPositive() {
		return errors.New("loan amount must be positive")
	}
	if t.InterestRate.IsNegative() || t.InterestRate.GreaterThan(maxInterestRate) {
		return fmt.Errorf("interest rate must be between 0 and %s", maxInterestRate)
	}
	if t.TermMonths <= 0 || t.TermMonths > MaxTermMonths {
		return fmt.Errorf("term months must be between 1 and %d", MaxTermMonths)
	}
	if t.AmortizationMonths != nil && (*t.AmortizationMonths <= 0 || *t.AmortizationMonths > MaxTermMonths) {
		return fmt.Errorf("amortization months must be between 1 and %d", MaxTermMonths)
	}
	if t.LTV.Valid && (t.LTV.Decimal.IsNegative() || t.LTV.Decimal.GreaterThan(maxLTV)) {
		return fmt.Errorf("ltv must be between 0 and %s", maxLTV)
	}
	if t.OriginationFee.Valid &&
		(t.OriginationFee.Decimal.IsNegative() || t.OriginationFee.Decimal.GreaterThan(maxOriginationFee)) {
		return fmt.Errorf("origination fee must be between 0 and %s", maxOriginationFee)
	}
	return nil
}

// TermSheet is a versioned offer of terms for a deal.
type TermSheet struct {
	id           string
	tenantID     string
	dealID       string
	version      int
	terms        TermSheetTerms
	status       valueobject.TermSheetStatus
	generatedBy  string
	createdAt    time.Time
	domainEvents []event.DomainEvent
}

// NewTermSheet drafts version of a term sheet for dealID. Missing recourse type
// and origination fee take their defaults.
func NewTermSheet(
	tenantID, dealID, generatedBy string,
	version int,
	terms TermSheetTerms,
	now time.Time,
) (TermSheet, error) {
	if tenantID == "" {
		return TermSheet{}, errors.New("tenant ID is required")
	}
	if dealID == "" {
		return TermSheet{}, errors.New("deal ID is required")
	}
	if version <= 0 {
		return TermSheet{}, errors.New("version must be positive")
	}
	if err := terms.validate(); err != nil {
		return TermSheet{}, err
	}
	if terms.RecourseType.IsZero() {
		terms.RecourseType = valueobject.RecourseFull
	}
	if !terms.OriginationFee.Valid {
		terms.OriginationFee = decimal.NewNullDecimal(DefaultOriginationFee)
	}

	id := uuid.New().String()
	ts := TermSheet{
		id:          id,
		tenantID:    tenantID,
		dealID:      dealID,
		version:     version,
		terms:       terms,
		status:      valueobject.TermSheetStatusDraft,
		generatedBy: generatedBy,
		createdAt:   now,
	}
	ts.domainEvents = append(ts.domainEvents, event.NewTermSheetGenerated(
		id, tenantID, dealID, version, terms.LoanAmount, terms.InterestRate, terms.TermMonths,
	))
	return ts, nil
}

// ReconstructTermSheet rebuilds a term sheet from persistence.
func ReconstructTermSheet(
	id, tenantID, dealID, generatedBy string,
	version int,
	terms TermSheetTerms,
	status valueobject.TermSheetStatus,
	createdAt time.Time,
) TermSheet {
	return TermSheet{
		id:          id,
		tenantID:    tenantID,
		dealID:      dealID,
		version:     version,
		terms:       terms,
		status:      status,
		generatedBy: generatedBy,
		createdAt:   createdAt,
	}
}

// PaymentSchedule amortizes the loan amount over the amortization period, or
// the term when none is set, starting from the sheet's creation date.
func (t TermSheet) PaymentSchedule() []AmortizationEntry {
	amortization := t.terms.TermMonths
	if t.terms.AmortizationMonths != nil {
		amortization = *t.terms.AmortizationMonths
	}
	return GenerateAmortizationSchedule(
		t.terms.LoanAmount, t.terms.InterestRate, amortization, t.terms.TermMonths, t.createdAt,
	)
}

func (t TermSheet) ID() string                          { return t.id }
func (t TermSheet) TenantID() string                    { return t.tenantID }
func (t TermSheet) DealID() string                      { return t.dealID }
func (t TermSheet) Version() int                        { return t.version }
func (t TermSheet) Terms() TermSheetTerms               { return t.terms }
func (t TermSheet) Status() valueobject.TermSheetStatus { return t.status }
func (t TermSheet) GeneratedBy() string                 { return t.generatedBy }
func (t TermSheet) CreatedAt() time.Time                { return t.createdAt }
func (t TermSheet) DomainEvents() []event.DomainEvent   { return t.domainEvents }
