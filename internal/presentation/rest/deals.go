package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
)

func (h *Handler) createDeal(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, userID string) {
		var req dto.CreateDealRequest
		if !decodeBody(w, r, createDealValidator, &req) {
			return
		}
		req.TenantID = tenantID
		req.UserID = userID

		resp, err := h.uc.CreateDeal.Execute(r.Context(), req)
		if err != nil {
			writeUseCaseError(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusCreated, "Deal created successfully", resp)
	})
}

func (h *Handler) getDeal(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, _ string) {
		resp, err := h.uc.GetDeal.Execute(r.Context(), dto.GetDealRequest{
			TenantID: tenantID,
			DealID:   chi.URLParam(r, "id"),
		})
		if err != nil {
			writeUseCaseError(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusOK, "", resp)
	})
}

func (h *Handler) listDeals(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, _ string) {
		q := r.URL.Query()
		resp, err := h.uc.ListDeals.Execute(r.Context(), dto.ListDealsRequest{
			TenantID: tenantID,
			Status:   q.Get("status"),
			Limit:    queryInt(q.Get("limit")),
			Offset:   queryInt(q.Get("offset")),
		})
		if err != nil {
			writeUseCaseError(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusOK, "", resp)
	})
}

// financialsBody accepts amounts as JSON numbers or strings.
type financialsBody struct {
	NetOperatingIncome amount `json:"net_operating_income"`
	AnnualDebtService  amount `json:"annual_debt_service"`
	PurchasePrice      amount `json:"purchase_price"`
	AppraisedValue     amount `json:"appraised_value"`
	TotalProjectCost   amount `json:"total_project_cost"`
}

// amount is the raw text of a numeric field; parsing happens downstream.
type amount string

func (a *amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amount(s)
		return nil
	}
	*a = amount(b)
	return nil
}

func (h *Handler) upsertFinancials(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, _ string) {
		var body financialsBody
		if !decodeBody(w, r, financialsValidator, &body) {
			return
		}
		resp, err := h.uc.UpsertFinancials.Execute(r.Context(), dto.UpsertFinancialsRequest{
			TenantID:           tenantID,
			DealID:             chi.URLParam(r, "id"),
			NetOperatingIncome: string(body.NetOperatingIncome),
			AnnualDebtService:  string(body.AnnualDebtService),
			PurchasePrice:      string(body.PurchasePrice),
			AppraisedValue:     string(body.AppraisedValue),
			TotalProjectCost:   string(body.TotalProjectCost),
		})
		if err != nil {
			writeUseCaseError(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusOK, "Property financials saved", resp)
	})
}

// queryInt parses a paging parameter; bad input becomes 0 and the use case
// applies its defaults.
func queryInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
