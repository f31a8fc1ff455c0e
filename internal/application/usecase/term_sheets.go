package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

// CreateTermSheetUseCase drafts the next term sheet version for a deal.
type CreateTermSheetUseCase struct {
	deals  port.DealRepository
	sheets port.TermSheetRepository
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewCreateTermSheetUseCase wires dependencies.
func NewCreateTermSheetUseCase(
	deals port.DealRepository,
	sheets port.TermSheetRepository,
	uow port.UnitOfWork,
	logger *slog.Logger,
) *CreateTermSheetUseCase {
	return &CreateTermSheetUseCase{deals: deals, sheets: sheets, uow: uow, logger: logger}
}

// Execute validates the terms, assigns the next version and moves the deal to
// term_sheet_sent.
func (uc *CreateTermSheetUseCase) Execute(
	ctx context.Context,
	req dto.CreateTermSheetRequest,
) (dto.TermSheetResponse, error) {
	deal, err := uc.deals.FindByID(ctx, req.TenantID, req.DealID)
	if err != nil {
		return dto.TermSheetResponse{}, notFound(err, ErrDealNotFound, "find deal")
	}

	recourse, err := valueobject.NewRecourseType(req.RecourseType)
	if err != nil {
		return dto.TermSheetResponse{}, invalid(err)
	}

	version, err := uc.sheets.NextVersion(ctx, req.TenantID, req.DealID)
	if err != nil {
		return dto.TermSheetResponse{}, fmt.Errorf("next term sheet version: %w", err)
	}

	now := time.Now().UTC()
	sheet, err := model.NewTermSheet(req.TenantID, req.DealID, req.UserID, version, model.TermSheetTerms{
		LoanAmount:         req.LoanAmount,
		InterestRate:       req.InterestRate,
		TermMonths:         req.TermMonths,
		AmortizationMonths: req.AmortizationMonths,
		LTV:                req.LTV,
		RecourseType:       recourse,
		PrepaymentPenalty:  req.PrepaymentPenalty,
		OriginationFee:     req.OriginationFee,
		Conditions:         req.Conditions,
		ExpirationDate:     req.ExpirationDate,
	}, now)
	if err != nil {
		return dto.TermSheetResponse{}, invalid(err)
	}

	deal, err = deal.MarkTermSheetSent(now)
	if err != nil {
		return dto.TermSheetResponse{}, fmt.Errorf("deal %s is %s: %w", deal.ID(), deal.Status(), err)
	}

	if err := uc.uow.SaveTermSheet(ctx, sheet, deal); err != nil {
		return dto.TermSheetResponse{}, fmt.Errorf("save term sheet: %w", err)
	}

	uc.logger.Info("term sheet generated", "deal_id", deal.ID(), "term_sheet_id", sheet.ID(), "version", version)
	return toTermSheetResponse(sheet, true), nil
}

// GetTermSheetUseCase retrieves a term sheet with its payment schedule.
type GetTermSheetUseCase struct {
	sheets port.TermSheetRepository
}

// NewGetTermSheetUseCase wires dependencies.
func NewGetTermSheetUseCase(sheets port.TermSheetRepository) *GetTermSheetUseCase {
	return &GetTermSheetUseCase{sheets: sheets}
}

// Execute returns the term sheet or ErrTermSheetNotFound.
func (uc *GetTermSheetUseCase) Execute(ctx context.Context, req dto.GetTermSheetRequest) (dto.TermSheetResponse, error) {
	sheet, err := uc.sheets.FindByID(ctx, req.TenantID, req.TermSheetID)
	if err != nil {
		return dto.TermSheetResponse{}, notFound(err, ErrTermSheetNotFound, "find term sheet")
	}
	return toTermSheetResponse(sheet, true), nil
}

// ListDealTermSheetsUseCase lists every version of a deal's term sheets.
type ListDealTermSheetsUseCase struct {
	deals  port.DealRepository
	sheets port.TermSheetRepository
}

// NewListDealTermSheetsUseCase wires dependencies.
func NewListDealTermSheetsUseCase(deals port.DealRepository, sheets port.TermSheetRepository) *ListDealTermSheetsUseCase {
	return &ListDealTermSheetsUseCase{deals: deals, sheets: sheets}
}

// Execute returns term sheets highest version first.
func (uc *ListDealTermSheetsUseCase) Execute(
	ctx context.Context,
	req dto.ListDealTermSheetsRequest,
) ([]dto.TermSheetResponse, error) {
	if _, err := uc.deals.FindByID(ctx, req.TenantID, req.DealID); err != nil {
		return nil, notFound(err, ErrDealNotFound, "find deal")
	}
	sheets, err := uc.sheets.FindByDealID(ctx, req.TenantID, req.DealID)
	if err != nil {
		return nil, fmt.Errorf("list term sheets: %w", err)
	}
	out := make([]dto.TermSheetResponse, 0, len(sheets))
	for _, s := range sheets {
		out = append(out, toTermSheetResponse(s, false))
	}
	return out, nil
}

// RenderTermSheetUseCase produces the printable term sheet document.
type RenderTermSheetUseCase struct {
	deals    port.DealRepository
	sheets   port.TermSheetRepository
	renderer port.DocumentRenderer
}

// NewRenderTermSheetUseCase wires dependencies.
func NewRenderTermSheetUseCase(
	deals port.DealRepository,
	sheets port.TermSheetRepository,
	renderer port.DocumentRenderer,
) *RenderTermSheetUseCase {
	return &RenderTermSheetUseCase{deals: deals, sheets: sheets, renderer: renderer}
}

// Execute renders the term sheet as an HTML document.
func (uc *RenderTermSheetUseCase) Execute(ctx context.Context, req dto.GetTermSheetRequest) ([]byte, error) {
	sheet, err := uc.sheets.FindByID(ctx, req.TenantID, req.TermSheetID)
	if err != nil {
		return nil, notFound(err, ErrTermSheetNotFound, "find term sheet")
	}
	deal, err := uc.deals.FindByID(ctx, req.TenantID, sheet.DealID())
	if err != nil {
		return nil, notFound(err, ErrDealNotFound, "find deal")
	}
	doc, err := uc.renderer.RenderTermSheet(sheet, deal)
	if err != nil {
		return nil, fmt.Errorf("render term sheet: %w", err)
	}
	return doc, nil
}
