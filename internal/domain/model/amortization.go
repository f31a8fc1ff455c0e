package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// AmortizationEntry is one monthly period of a payment schedule.
type AmortizationEntry struct {
	DueDate          time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	RemainingBalance decimal.Decimal
	Period           int
}

// GenerateAmortizationSchedule computes a level-payment schedule.
//
// The payment is sized to amortize principal over amortizationMonths at
// annualRatePct (8.25 means 8.25%). Only the first termMonths periods are
// produced; when the term is shorter than the amortization the final period
// carries the balloon. Inputs whose payment cannot be represented yield no
// schedule.
//
//	monthlyRate = annualRatePct / 100 / 12
//	payment     = P * r * (1+r)^n / ((1+r)^n - 1)
func GenerateAmortizationSchedule(
	principal decimal.Decimal,
	annualRatePct decimal.Decimal,
	amortizationMonths int,
	termMonths int,
	startDate time.Time,
) []AmortizationEntry {
	if amortizationMonths <= 0 || termMonths <= 0 || !principal.IsPositive() {
		return nil
	}
	periods := min(termMonths, amortizationMonths)

	// float64 for the power term, decimal for the money.
	monthlyRate := annualRatePct.InexactFloat64() / 100.0 / 12.0

	var payment decimal.Decimal
	if monthlyRate == 0 {
		payment = principal.Div(decimal.NewFromInt(int64(amortizationMonths))).Round(2)
	} else {
		factor := math.Pow(1+monthlyRate, float64(amortizationMonths))
		raw := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
		if !isFinite(factor) || !isFinite(raw) {
			return nil
		}
		payment = decimal.NewFromFloat(raw).Round(2)
	}

	schedule := make([]AmortizationEntry, 0, periods)
	remaining := principal
	monthlyRateDec := decimal.NewFromFloat(monthlyRate)

	for period := 1; period <= periods; period++ {
		interest := remaining.Mul(monthlyRateDec).Round(2)
		principalPart := payment.Sub(interest)
		if period == periods || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}
		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          startDate.AddDate(0, period, 0),
			Principal:        principalPart,
			Interest:         interest,
			Total:            principalPart.Add(interest),
			RemainingBalance: remaining,
		})
	}

	return schedule
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
