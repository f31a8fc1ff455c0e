package usecase

import (
	"github.com/bibbank/cre-underwriting/internal/application/dto"
	"github.com/bibbank/cre-underwriting/internal/domain/model"
)

func toDealResponse(d model.Deal) dto.DealResponse {
	details := d.Details()
	return dto.DealResponse{
		ID:                   d.ID(),
		TenantID:             d.TenantID(),
		DealName:             details.DealName,
		BorrowerName:         details.BorrowerName,
		LoanAmount:           details.LoanAmount,
		AssetType:            details.AssetType,
		LoanPurpose:          details.LoanPurpose,
		LoanType:             details.LoanType,
		PropertyAddressLine1: details.Property.Line1,
		PropertyCity:         details.Property.City,
		PropertyState:        details.Property.State,
		PropertyZipCode:      details.Property.ZipCode,
		Status:               d.Status().String(),
		CreatedBy:            d.CreatedBy(),
		CreatedAt:            d.CreatedAt(),
		UpdatedAt:            d.UpdatedAt(),
	}
}

func toFinancialsResponse(f model.PropertyFinancials) dto.PropertyFinancialsResponse {
	return dto.PropertyFinancialsResponse{
		DealID:             f.DealID,
		NetOperatingIncome: f.Statement.NetOperatingIncome,
		AnnualDebtService:  f.Statement.AnnualDebtService,
		PurchasePrice:      f.Statement.PurchasePrice,
		AppraisedValue:     f.Statement.AppraisedValue,
		TotalProjectCost:   f.Statement.TotalProjectCost,
		UpdatedAt:          f.UpdatedAt,
	}
}

// ToUnderwritingResponse maps a result aggregate to its external form.
func ToUnderwritingResponse(r model.UnderwritingResult) dto.UnderwritingResultResponse {
	m := r.Metrics()
	risk := r.Risk()
	rec := r.Recommendation()

	factors := risk.Factors
	if factors == nil {
		factors = []string{}
	}
	return dto.UnderwritingResultResponse{
		ID:                 r.ID(),
		TenantID:           r.TenantID(),
		DealID:             r.DealID(),
		UnderwriterID:      r.UnderwriterID(),
		DSCR:               m.DSCR,
		LTV:                m.LTV,
		LTC:                m.LTC,
		CapRate:            m.CapRate,
		NOI:                m.NetOperatingIncome,
		DebtService:        m.AnnualDebtService,
		CashFlow:           m.CashFlow,
		RiskScore:          risk.Score,
		RiskRating:         risk.Rating.String(),
		RiskFactors:        factors,
		Decision:           rec.Decision.String(),
		ApprovedAmount:     rec.ApprovedAmount,
		ApprovedLTV:        rec.ApprovedLTV,
		ApprovedRate:       rec.ApprovedRate,
		ApprovedTermMonths: rec.ApprovedTermMonths,
		Conditions:         rec.Conditions,
		Notes:              rec.Notes,
		RunAt:              r.CreatedAt(),
	}
}

func toTermSheetResponse(ts model.TermSheet, withSchedule bool) dto.TermSheetResponse {
	terms := ts.Terms()
	resp := dto.TermSheetResponse{
		ID:                 ts.ID(),
		TenantID:           ts.TenantID(),
		DealID:             ts.DealID(),
		Version:            ts.Version(),
		LoanAmount:         terms.LoanAmount,
		InterestRate:       terms.InterestRate,
		TermMonths:         terms.TermMonths,
		AmortizationMonths: terms.AmortizationMonths,
		LTV:                terms.LTV,
		RecourseType:       terms.RecourseType.String(),
		PrepaymentPenalty:  optionalString(terms.PrepaymentPenalty),
		OriginationFee:     terms.OriginationFee.Decimal,
		Conditions:         optionalString(terms.Conditions),
		ExpirationDate:     terms.ExpirationDate,
		Status:             ts.Status().String(),
		GeneratedBy:        ts.GeneratedBy(),
		CreatedAt:          ts.CreatedAt(),
	}
	if withSchedule {
		for _, e := range ts.PaymentSchedule() {
			resp.Schedule = append(resp.Schedule, dto.AmortizationEntryResponse{
				Period:           e.Period,
				DueDate:          e.DueDate,
				Principal:        e.Principal,
				Interest:         e.Interest,
				Total:            e.Total,
				RemainingBalance: e.RemainingBalance,
			})
		}
	}
	return resp
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
