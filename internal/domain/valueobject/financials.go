package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DealTerms is the slice of a deal the underwriting engine consumes.
type DealTerms struct {
	LoanAmount  decimal.Decimal
	AssetType   string
	LoanPurpose string
}

// FinancialStatement holds the income and value facts of the subject property.
// Optional amounts are invalid (null) when absent.
type FinancialStatement struct {
	NetOperatingIncome decimal.Decimal
	AnnualDebtService  decimal.Decimal
	PurchasePrice      decimal.NullDecimal
	AppraisedValue     decimal.NullDecimal
	TotalProjectCost   decimal.NullDecimal
}

// PropertyValue returns the appraised value when positive, else the purchase
// price when positive, else zero.
func (f FinancialStatement) PropertyValue() decimal.Decimal {
	if f.AppraisedValue.Valid && f.AppraisedValue.Decimal.IsPositive() {
		return f.AppraisedValue.Decimal
	}
	if f.PurchasePrice.Valid && f.PurchasePrice.Decimal.IsPositive() {
		return f.PurchasePrice.Decimal
	}
	return decimal.Zero
}

// RawFinancialStatement carries untrusted string amounts as received from a
// client or a loosely typed store.
type RawFinancialStatement struct {
	NetOperatingIncome string
	AnnualDebtService  string
	PurchasePrice      string
	AppraisedValue     string
	TotalProjectCost   string
}

// Parse normalises every field. Required amounts fall back to zero and
// optional amounts to null when empty or not numeric.
func (r RawFinancialStatement) Parse() FinancialStatement {
	return FinancialStatement{
		NetOperatingIncome: ParseAmount(r.NetOperatingIncome),
		AnnualDebtService:  ParseAmount(r.AnnualDebtService),
		PurchasePrice:      ParseOptionalAmount(r.PurchasePrice),
		AppraisedValue:     ParseOptionalAmount(r.AppraisedValue),
		TotalProjectCost:   ParseOptionalAmount(r.TotalProjectCost),
	}
}

// ParseAmount parses a decimal amount, returning zero for empty or malformed input.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseOptionalAmount parses a decimal amount, returning null for empty or malformed input.
func ParseOptionalAmount(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
