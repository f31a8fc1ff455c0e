package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
)

type runUnderwritingBody struct {
	DealID string `json:"deal_id"`
}

func (h *Handler) runUnderwriting(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, userID string) {
		var body runUnderwritingBody
		if !decodeBody(w, r, runUnderwritingValidator, &body) {
			return
		}
		resp, err := h.uc.RunUnderwriting.Execute(r.Context(), dto.RunUnderwritingRequest{
			TenantID:      tenantID,
			UnderwriterID: userID,
			DealID:        body.DealID,
		})
		if err != nil {
			writeUseCaseError(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusCreated, "Underwriting analysis completed", resp)
	})
}

func (h *Handler) getUnderwriting(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, _ string) {
		resp, err := h.uc.GetUnderwriting.Execute(r.Context(), dto.GetUnderwritingRequest{
			TenantID: tenantID,
			ResultID: chi.URLParam(r, "id"),
		})
		if err != nil {
			writeUseCaseError(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusOK, "", resp)
	})
}

func (h *Handler) listDealUnderwriting(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, _ string) {
		resp, err := h.uc.ListUnderwriting.Execute(r.Context(), dto.ListDealUnderwritingRequest{
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

func (h *Handler) portfolioSummary(w http.ResponseWriter, r *http.Request) {
	h.withPrincipal(w, r, func(tenantID, _ string) {
		resp, err := h.uc.PortfolioSummary.Execute(r.Context(), tenantID)
		if err != nil {
			writeUseCaseError(w, r, h.logger, err)
			return
		}
		writeData(w, http.StatusOK, "", resp)
	})
}
