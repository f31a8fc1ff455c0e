package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

var hundred = decimal.NewFromInt(100)

// ComputeMetrics derives DSCR, LTV, LTC, cap rate and cash flow from the deal
// and the property's financial statement. Zero divisors yield zero, except LTC
// which is null without a positive total project cost.
func ComputeMetrics(deal valueobject.DealTerms, fin valueobject.FinancialStatement) valueobject.Metrics {
	noi := fin.NetOperatingIncome
	debtService := fin.AnnualDebtService
	propertyValue := fin.PropertyValue()

	dscr := decimal.Zero
	if debtService.IsPositive() {
		dscr = noi.Div(debtService)
	}

	ltv := decimal.Zero
	capRate := decimal.Zero
	if propertyValue.IsPositive() {
		ltv = deal.LoanAmount.Div(propertyValue).Mul(hundred)
		capRate = noi.Div(propertyValue).Mul(hundred)
	}

	var ltc decimal.NullDecimal
	if fin.TotalProjectCost.Valid && fin.TotalProjectCost.Decimal.IsPositive() {
		ltc = decimal.NewNullDecimal(deal.LoanAmount.Div(fin.TotalProjectCost.Decimal).Mul(hundred).Round(2))
	}

	return valueobject.Metrics{
		DSCR:               dscr.Round(2),
		LTV:                ltv.Round(2),
		LTC:                ltc,
		CapRate:            capRate.Round(2),
		CashFlow:           noi.Sub(debtService).Round(2),
		NetOperatingIncome: noi,
		AnnualDebtService:  debtService,
	}
}
