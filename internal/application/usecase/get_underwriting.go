package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
)

// GetUnderwritingResultUseCase retrieves a result, consulting the cache first.
type GetUnderwritingResultUseCase struct {
	results port.UnderwritingResultRepository
	cache   port.ResultCache
	logger  *slog.Logger
}

// NewGetUnderwritingResultUseCase wires dependencies.
func NewGetUnderwritingResultUseCase(
	results port.UnderwritingResultRepository,
	cache port.ResultCache,
	logger *slog.Logger,
) *GetUnderwritingResultUseCase {
	return &GetUnderwritingResultUseCase{results: results, cache: cache, logger: logger}
}

// Execute returns the result or ErrResultNotFound. Cache failures degrade to
// a database read.
func (uc *GetUnderwritingResultUseCase) Execute(
	ctx context.Context,
	req dto.GetUnderwritingRequest,
) (dto.UnderwritingResultResponse, error) {
	cached, ok, err := uc.cache.Get(ctx, req.TenantID, req.ResultID)
	if err != nil {
		uc.logger.Warn("read underwriting cache", "result_id", req.ResultID, "error", err)
	}
	if ok {
		return ToUnderwritingResponse(cached), nil
	}

	result, err := uc.results.FindByID(ctx, req.TenantID, req.ResultID)
	if err != nil {
		return dto.UnderwritingResultResponse{}, notFound(err, ErrResultNotFound, "find underwriting result")
	}
	if err := uc.cache.Put(ctx, result); err != nil {
		uc.logger.Warn("cache underwriting result", "result_id", result.ID(), "error", err)
	}
	return ToUnderwritingResponse(result), nil
}

// ListDealUnderwritingUseCase lists every result recorded for a deal.
type ListDealUnderwritingUseCase struct {
	deals   port.DealRepository
	results port.UnderwritingResultRepository
}

// NewListDealUnderwritingUseCase wires dependencies.
func NewListDealUnderwritingUseCase(
	deals port.DealRepository,
	results port.UnderwritingResultRepository,
) *ListDealUnderwritingUseCase {
	return &ListDealUnderwritingUseCase{deals: deals, results: results}
}

// Execute returns results newest first. The deal must exist in the tenant.
func (uc *ListDealUnderwritingUseCase) Execute(
	ctx context.Context,
	req dto.ListDealUnderwritingRequest,
) ([]dto.UnderwritingResultResponse, error) {
	if _, err := uc.deals.FindByID(ctx, req.TenantID, req.DealID); err != nil {
		return nil, notFound(err, ErrDealNotFound, "find deal")
	}

	results, err := uc.results.FindByDealID(ctx, req.TenantID, req.DealID)
	if err != nil {
		return nil, fmt.Errorf("list underwriting results: %w", err)
	}

	out := make([]dto.UnderwritingResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, ToUnderwritingResponse(r))
	}
	return out, nil
}
