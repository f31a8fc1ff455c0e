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

const (
	defaultLimit = 20
	maxLimit     = 100
)

// CreateDealUseCase opens a new deal in intake.
type CreateDealUseCase struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewCreateDealUseCase wires dependencies.
func NewCreateDealUseCase(uow port.UnitOfWork, logger *slog.Logger) *CreateDealUseCase {
	return &CreateDealUseCase{uow: uow, logger: logger}
}

// Execute validates and persists the deal together with its created event.
func (uc *CreateDealUseCase) Execute(ctx context.Context, req dto.CreateDealRequest) (dto.DealResponse, error) {
	deal, err := model.NewDeal(req.TenantID, req.UserID, model.DealDetails{
		DealName:     req.DealName,
		BorrowerName: req.BorrowerName,
		LoanAmount:   req.LoanAmount,
		AssetType:    req.AssetType,
		LoanPurpose:  req.LoanPurpose,
		LoanType:     req.LoanType,
		Property: model.PropertyAddress{
			Line1:   req.PropertyAddressLine1,
			City:    req.PropertyCity,
			State:   req.PropertyState,
			ZipCode: req.PropertyZipCode,
		},
	}, time.Now().UTC())
	if err != nil {
		return dto.DealResponse{}, invalid(err)
	}

	if err := uc.uow.SaveDeal(ctx, deal); err != nil {
		return dto.DealResponse{}, fmt.Errorf("save deal: %w", err)
	}

	uc.logger.Info("deal created", "deal_id", deal.ID(), "tenant_id", deal.TenantID())
	return toDealResponse(deal), nil
}

// GetDealUseCase retrieves a deal by ID within a tenant.
type GetDealUseCase struct {
	deals port.DealRepository
}

// NewGetDealUseCase wires dependencies.
func NewGetDealUseCase(deals port.DealRepository) *GetDealUseCase {
	return &GetDealUseCase{deals: deals}
}

// Execute returns the deal or ErrDealNotFound.
func (uc *GetDealUseCase) Execute(ctx context.Context, req dto.GetDealRequest) (dto.DealResponse, error) {
	deal, err := uc.deals.FindByID(ctx, req.TenantID, req.DealID)
	if err != nil {
		return dto.DealResponse{}, notFound(err, ErrDealNotFound, "find deal")
	}
	return toDealResponse(deal), nil
}

// ListDealsUseCase pages through a tenant's deals.
type ListDealsUseCase struct {
	deals port.DealRepository
}

// NewListDealsUseCase wires dependencies.
func NewListDealsUseCase(deals port.DealRepository) *ListDealsUseCase {
	return &ListDealsUseCase{deals: deals}
}

// Execute lists deals newest first, optionally filtered by status.
func (uc *ListDealsUseCase) Execute(ctx context.Context, req dto.ListDealsRequest) (dto.DealListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := max(req.Offset, 0)

	filter := port.DealFilter{Limit: limit, Offset: offset}
	if req.Status != "" {
		status, err := valueobject.NewDealStatus(req.Status)
		if err != nil {
			return dto.DealListResponse{}, invalid(err)
		}
		filter.Status = status
	}

	deals, total, err := uc.deals.List(ctx, req.TenantID, filter)
	if err != nil {
		return dto.DealListResponse{}, fmt.Errorf("list deals: %w", err)
	}

	resp := dto.DealListResponse{
		Deals:  make([]dto.DealResponse, 0, len(deals)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, d := range deals {
		resp.Deals = append(resp.Deals, toDealResponse(d))
	}
	return resp, nil
}

// UpsertPropertyFinancialsUseCase records the financial statement of a deal.
type UpsertPropertyFinancialsUseCase struct {
	deals      port.DealRepository
	financials port.PropertyFinancialsRepository
}

// NewUpsertPropertyFinancialsUseCase wires dependencies.
func NewUpsertPropertyFinancialsUseCase(
	deals port.DealRepository,
	financials port.PropertyFinancialsRepository,
) *UpsertPropertyFinancialsUseCase {
	return &UpsertPropertyFinancialsUseCase{deals: deals, financials: financials}
}

// Execute parses the raw amounts and replaces the deal's financials.
func (uc *UpsertPropertyFinancialsUseCase) Execute(
	ctx context.Context,
	req dto.UpsertFinancialsRequest,
) (dto.PropertyFinancialsResponse, error) {
	if _, err := uc.deals.FindByID(ctx, req.TenantID, req.DealID); err != nil {
		return dto.PropertyFinancialsResponse{}, notFound(err, ErrDealNotFound, "find deal")
	}

	statement := valueobject.RawFinancialStatement{
		NetOperatingIncome: req.NetOperatingIncome,
		AnnualDebtService:  req.AnnualDebtService,
		PurchasePrice:      req.PurchasePrice,
		AppraisedValue:     req.AppraisedValue,
		TotalProjectCost:   req.TotalProjectCost,
	}.Parse()

	fin, err := model.NewPropertyFinancials(req.TenantID, req.DealID, statement, time.Now().UTC())
	if err != nil {
		return dto.PropertyFinancialsResponse{}, invalid(err)
	}
	if err := uc.financials.Upsert(ctx, fin); err != nil {
		return dto.PropertyFinancialsResponse{}, fmt.Errorf("save financials: %w", err)
	}
	return toFinancialsResponse(fin), nil
}
