package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xeipuuv/gojsonschema"

	"github.com/bibbank/cre-underwriting/internal/application/usecase"
	"github.com/bibbank/cre-underwriting/pkg/auth"
)

const maxBodyBytes = 1 << 20

// UseCases groups the application services exposed over HTTP.
type UseCases struct {
	CreateDeal       *usecase.CreateDealUseCase
	GetDeal          *usecase.GetDealUseCase
	ListDeals        *usecase.ListDealsUseCase
	UpsertFinancials *usecase.UpsertPropertyFinancialsUseCase
	RunUnderwriting  *usecase.RunUnderwritingUseCase
	GetUnderwriting  *usecase.GetUnderwritingResultUseCase
	ListUnderwriting *usecase.ListDealUnderwritingUseCase
	PortfolioSummary *usecase.PortfolioSummaryUseCase
	CreateTermSheet  *usecase.CreateTermSheetUseCase
	GetTermSheet     *usecase.GetTermSheetUseCase
	ListTermSheets   *usecase.ListDealTermSheetsUseCase
	RenderTermSheet  *usecase.RenderTermSheetUseCase
}

// Handler adapts HTTP requests to the underwriting use cases.
type Handler struct {
	uc     UseCases
	logger *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(uc UseCases, logger *slog.Logger) *Handler {
	return &Handler{uc: uc, logger: logger}
}

// RegisterRoutes mounts the API on r. Callers are expected to have applied
// auth.HTTPMiddleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	writers := auth.RequireRoles(auth.RoleBroker, auth.RoleUnderwriter, auth.RoleAdmin)
	underwriters := auth.RequireRoles(auth.RoleUnderwriter, auth.RoleAdmin)

	r.Route("/deals", func(r chi.Router) {
		r.With(writers).Post("/", h.createDeal)
		r.Get("/", h.listDeals)
		r.Get("/{id}", h.getDeal)
		r.With(writers).Put("/{id}/financials", h.upsertFinancials)
	})

	r.Route("/underwriting", func(r chi.Router) {
		r.With(underwriters).Post("/run", h.runUnderwriting)
		r.Get("/summary", h.portfolioSummary)
		r.Get("/deal/{dealID}", h.listDealUnderwriting)
		r.Get("/{id}", h.getUnderwriting)
	})

	r.Route("/term-sheets", func(r chi.Router) {
		r.With(underwriters).Post("/", h.createTermSheet)
		r.Get("/deal/{dealID}", h.listDealTermSheets)
		r.Get("/{id}", h.getTermSheet)
		r.Get("/{id}/document", h.renderTermSheet)
	})
}

// principal returns the tenant and user the request acts for.
func principal(r *http.Request) (tenantID, userID string, ok bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return "", "", false
	}
	return claims.TenantID.String(), claims.UserID.String(), true
}

func (h *Handler) withPrincipal(
	w http.ResponseWriter,
	r *http.Request,
	fn func(tenantID, userID string),
) {
	tenantID, userID, ok := principal(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
		return
	}
	fn(tenantID, userID)
}

// decodeBody reads the request body, validates it against schema and
// unmarshals it into dst. It writes the error response itself and reports
// whether the caller should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unreadable request body")
		return false
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON")
		return false
	}
	if details := validateBody(schema, body); details != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", details...)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}
