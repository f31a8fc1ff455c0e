package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
)

type termSheetBody struct {
	DealID             string              `json:"deal_id"`
	LoanAmount         decimal.Decimal     `json:"loan_amount"`
	InterestRate       decimal.Decimal     `json:"interest_rate"`
	TermMonths         int                 `json:"term_months"`
	AmortizationMonths *int                `json:"amortization_months"`
	LTV                decimal.NullDecimal `json:"ltv"`
	RecourseType       string              `json:"recourse_type"`
	PrepaymentPenalty  string              `json:"prepayment_penalty"`
	OriginationFee     decimal.NullDecimal `json:"origination_fee"`
	Conditions         string              `json:"conditions"`
	ExpirationDate     string              `json:"expiration_date"`
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

func (h *Handler) createTermSheet(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, userID string) {
		var body termSheetBody
		if !decodeBody(w, r, createTermSheetValidator, &body) {
			return
		}
		expires, ok := parseDate(body.ExpirationDate)
		if !ok {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "expiration_date must be a date")
			return
		}

		resp, err := h.uc.CreateTermSheet.Execute(r.Context(), dto.CreateTermSheetRequest{
			TenantID:           tenantID,
			UserID:             userID,
			DealID:             body.DealID,
			LoanAmount:         body.LoanAmount,
			InterestRate:       body.InterestRate,
			TermMonths:         body.TermMonths,
			AmortizationMonths: body.AmortizationMonths,
			LTV:                body.LTV,
			RecourseType:       body.RecourseType,
			PrepaymentPenalty:  body.PrepaymentPenalty,
			OriginationFee:     body.OriginationFee,
			Conditions:         body.Conditions,
			ExpirationDate:     expires,
		})
		if err != nil {
			writeUseCaseError(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusCreated, "Term sheet created successfully", resp)
	})
}

func (h *Handler) getTermSheet(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, _ string) {
		resp, err := h.uc.GetTermSheet.Execute(r.Context(), dto.GetTermSheetRequest{
			TenantID:    tenantID,
			TermSheetID: chi.URLParam(r, "id"),
		})
		if err != nil {
			writeUseCaseError(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusOK, "", resp)
	})
}

func (h *Handler) listDealTermSheets(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, _ string) {
		resp, err := h.uc.ListTermSheets.Execute(r.Context(), dto.ListDealTermSheetsRequest{
			TenantID: tenantID,
			DealID:   chi.URLParam(r, "dealID"),
		})
		if err != nil {
			writeUseCaseError(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusOK, "", resp)
	})
}

func (h *Handler) renderTermSheet(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, _ string) {
		doc, err := h.uc.RenderTermSheet.Execute(r.Context(), dto.GetTermSheetRequest{
			TenantID:    tenantID,
			TermSheetID: chi.URLParam(r, "id"),
		})
		if err != nil {
			writeUseCaseError(w, r, h.logger, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc) //nolint:errcheck
	})
}
