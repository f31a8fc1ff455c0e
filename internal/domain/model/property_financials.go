package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

// PropertyFinancials is the financial statement recorded for a deal. A deal
// has at most one; saving again replaces it.
type PropertyFinancials struct {
	DealID    string
	TenantID  string
	Statement valueobject.FinancialStatement
	UpdatedAt time.Time
}

// NewPropertyFinancials validates and builds the financials for dealID.
func NewPropertyFinancials(
	tenantID, dealID string,
	statement valueobject.FinancialStatement,
	now time.Time,
) (PropertyFinancials, error) {
	if tenantID == "" {
		return PropertyFinancials{}, errors.New("tenant ID is required")
	}
	if dealID == "" {
		return PropertyFinancials{}, errors.New("deal ID is required")
	}
	if statement.AnnualDebtService.IsNegative() {
		return PropertyFinancials{}, errors.New("annual debt service must not be negative")
	}
	optional := []struct {
		name  string
		value decimal.NullDecimal
	}{
		{"purchase price", statement.PurchasePrice},
		{"appraised value", statement.AppraisedValue},
		{"total project cost", statement.TotalProjectCost},
	}
	for _, o := range optional {
		if o.value.Valid && o.value.Decimal.IsNegative() {
			return PropertyFinancials{}, errors.New(o.name + " must not be negative")
		}
	}
	return PropertyFinancials{
		DealID:    dealID,
		TenantID:  tenantID,
		Statement: statement,
		UpdatedAt: now,
	}, nil
}
