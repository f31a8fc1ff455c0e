package usecase

import (
	"errors"
	"fmt"

	"github.com/bibbank/cre-underwriting/internal/domain/port"
)

// Sentinel errors surfaced to the presentation layer.
var (
	ErrDealNotFound      = errors.New("deal not found")
	ErrFinancialsMissing = errors.New("property financials not found, add financial data before running underwriting")
	ErrResultNotFound    = errors.New("underwriting result not found")
	ErrTermSheetNotFound = errors.New("term sheet not found")
	ErrInvalidInput      = errors.New("invalid input")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// notFound translates port.ErrNotFound into the use-case sentinel.
func notFound(err, sentinel error, op string) error {
	if errors.Is(err, port.ErrNotFound) {
		return sentinel
	}
	return fmt.Errorf("%s: %w", op, err)
}
