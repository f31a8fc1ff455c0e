package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
	"github.com/bibbank/cre-underwriting/internal/application/usecase"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
	"github.com/bibbank/cre-underwriting/pkg/auth"
)

// UnderwritingHandler is the gRPC handler for underwriting operations.
type UnderwritingHandler struct {
	UnimplementedUnderwritingServiceServer

	run    *usecase.RunUnderwritingUseCase
	get    *usecase.GetUnderwritingResultUseCase
	list   *usecase.ListDealUnderwritingUseCase
	logger *slog.Logger
}

// NewUnderwritingHandler creates a new handler with all use-case dependencies.
func NewUnderwritingHandler(
	run *usecase.RunUnderwritingUseCase,
	get *usecase.GetUnderwritingResultUseCase,
	list *usecase.ListDealUnderwritingUseCase,
	logger *slog.Logger,
) *UnderwritingHandler {
	return &UnderwritingHandler{run: run, get: get, list: list, logger: logger}
}

// RunUnderwriting underwrites a deal. Requires the underwriter or admin role.
func (h *UnderwritingHandler) RunUnderwriting(
	ctx context.Context,
	req *RunUnderwritingRequest,
) (*UnderwritingResultResponse, error) {
	claims, err := requireClaims(ctx)
	if err != nil {
		return nil, err
	}
	if !claims.HasAnyRole(auth.RoleUnderwriter, auth.RoleAdmin) {
		return nil, status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	if req.DealID == "" {
		return nil, status.Error(codes.InvalidArgument, "deal_id is required")
	}

	resp, err := h.run.Execute(ctx, dto.RunUnderwritingRequest{
		TenantID:      claims.TenantID.String(),
		UnderwriterID: claims.UserID.String(),
		DealID:        req.DealID,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &UnderwritingResultResponse{Result: toUnderwritingResult(resp)}, nil
}

// GetUnderwritingResult returns one result by id.
func (h *UnderwritingHandler) GetUnderwritingResult(
	ctx context.Context,
	req *GetUnderwritingResultRequest,
) (*UnderwritingResultResponse, error) {
	claims, err := requireClaims(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := h.get.Execute(ctx, dto.GetUnderwritingRequest{
		TenantID: claims.TenantID.String(),
		ResultID: req.ResultID,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &UnderwritingResultResponse{Result: toUnderwritingResult(resp)}, nil
}

// ListDealUnderwriting returns every result recorded for a deal.
func (h *UnderwritingHandler) ListDealUnderwriting(
	ctx context.Context,
	req *ListDealUnderwritingRequest,
) (*ListDealUnderwritingResponse, error) {
	claims, err := requireClaims(ctx)
	if err != nil {
		return nil, err
	}
	results, err := h.list.Execute(ctx, dto.ListDealUnderwritingRequest{
		TenantID: claims.TenantID.String(),
		DealID:   req.DealID,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	out := &ListDealUnderwritingResponse{Results: make([]*UnderwritingResult, 0, len(results))}
	for _, r := range results {
		out.Results = append(out.Results, toUnderwritingResult(r))
	}
	return out, nil
}

func requireClaims(ctx context.Context) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing credentials")
	}
	return claims, nil
}

func (h *UnderwritingHandler) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrDealNotFound),
		errors.Is(err, usecase.ErrResultNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, usecase.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, usecase.ErrFinancialsMissing),
		errors.Is(err, valueobject.ErrInvalidStatusTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, port.ErrConcurrentUpdate):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, "underwriting rpc failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
