package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bibbank/cre-underwriting/internal/application/usecase"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
	"github.com/bibbank/cre-underwriting/pkg/postgres"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

type errorBody struct {
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	Code      string   `json:"code"`
	Timestamp string   `json:"timestamp"`
	Details   []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string, details ...string) {
	writeJSON(w, status, errorBody{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Details:   details,
	})
}

// errorMapping pairs a sentinel with its HTTP status and error code.
type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{usecase.ErrDealNotFound, http.StatusNotFound, "DEAL_NOT_FOUND"},
	{usecase.ErrResultNotFound, http.StatusNotFound, "UNDERWRITING_NOT_FOUND"},
	{usecase.ErrTermSheetNotFound, http.StatusNotFound, "TERM_SHEET_NOT_FOUND"},
	{usecase.ErrFinancialsMissing, http.StatusBadRequest, "FINANCIALS_MISSING"},
	{usecase.ErrInvalidInput, http.StatusBadRequest, "VALIDATION_ERROR"},
	{valueobject.ErrInvalidStatusTransition, http.StatusConflict, "INVALID_STATUS_TRANSITION"},
	{port.ErrConcurrentUpdate, http.StatusConflict, "CONCURRENT_UPDATE"},
}

// writeUseCaseError maps application and database errors to the JSON error
// body. Anything unrecognised is logged and reported as a 500 without detail.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}

	switch {
	case postgres.IsUniqueViolation(err):
		writeError(w, http.StatusConflict, "DUPLICATE_RESOURCE", "Resource already exists")
	case postgres.IsForeignKeyViolation(err):
		writeError(w, http.StatusBadRequest, "INVALID_REFERENCE", "Referenced resource does not exist")
	case postgres.IsNotNullViolation(err):
		writeError(w, http.StatusBadRequest, "MISSING_REQUIRED_FIELD", "Required field is missing")
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
