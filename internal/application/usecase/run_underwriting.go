package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/internal/domain/service"
)

var tracer = otel.Tracer("github.com/bibbank/cre-underwriting/internal/application/usecase")

// RunUnderwritingUseCase loads a deal and its financials, evaluates them and
// records the outcome.
type RunUnderwritingUseCase struct {
	deals      port.DealRepository
	financials port.PropertyFinancialsRepository
	uow        port.UnitOfWork
	cache      port.ResultCache
	recorder   port.DecisionRecorder
	engine     *service.UnderwritingEngine
	logger     *slog.Logger
}

// NewRunUnderwritingUseCase wires dependencies.
func NewRunUnderwritingUseCase(
	deals port.DealRepository,
	financials port.PropertyFinancialsRepository,
	uow port.UnitOfWork,
	cache port.ResultCache,
	recorder port.DecisionRecorder,
	engine *service.UnderwritingEngine,
	logger *slog.Logger,
) *RunUnderwritingUseCase {
	return &RunUnderwritingUseCase{
		deals:      deals,
		financials: financials,
		uow:        uow,
		cache:      cache,
		recorder:   recorder,
		engine:     engine,
		logger:     logger,
	}
}

// Execute runs underwriting for req.DealID. The result, the deal transition
// and their events are committed atomically.
func (uc *RunUnderwritingUseCase) Execute(
	ctx context.Context,
	req dto.RunUnderwritingRequest,
) (_ dto.UnderwritingResultResponse, err error) {
	ctx, span := tracer.Start(ctx, "RunUnderwriting")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("deal.id", req.DealID))

	// 1. Load the deal within the caller's tenant.
	deal, err := uc.deals.FindByID(ctx, req.TenantID, req.DealID)
	if err != nil {
		return dto.UnderwritingResultResponse{}, notFound(err, ErrDealNotFound, "find deal")
	}

	// 2. Load the financials; underwriting cannot run without them.
	fin, err := uc.financials.FindByDealID(ctx, req.TenantID, req.DealID)
	if err != nil {
		return dto.UnderwritingResultResponse{}, notFound(err, ErrFinancialsMissing, "find financials")
	}

	// 3. Evaluate.
	eval := uc.engine.Evaluate(deal.Terms(), fin.Statement)

	// 4. Build the result and transition the deal.
	now := time.Now().UTC()
	result, err := model.NewUnderwritingResult(
		req.TenantID, deal.ID(), req.UnderwriterID,
		eval.Metrics, eval.Risk, eval.Recommendation, now,
	)
	if err != nil {
		return dto.UnderwritingResultResponse{}, fmt.Errorf("build result: %w", err)
	}
	deal, err = deal.RecordUnderwriting(eval.Recommendation.Decision, now)
	if err != nil {
		return dto.UnderwritingResultResponse{}, fmt.Errorf("transition deal: %w", err)
	}

	// 5. Persist result, deal and outbox events together.
	if err := uc.uow.SaveUnderwriting(ctx, result, deal); err != nil {
		return dto.UnderwritingResultResponse{}, fmt.Errorf("save underwriting: %w", err)
	}

	// 6. Side effects that must not fail the request.
	uc.recorder.RecordDecision(ctx, eval.Recommendation.Decision, eval.Risk.Rating, eval.Metrics.DSCR.InexactFloat64())
	if err := uc.cache.Put(ctx, result); err != nil {
		uc.logger.Warn("cache underwriting result", "result_id", result.ID(), "error", err)
	}

	span.SetAttributes(
		attribute.String("underwriting.decision", eval.Recommendation.Decision.String()),
		attribute.String("underwriting.risk_rating", eval.Risk.Rating.String()),
	)
	uc.logger.Info("underwriting completed",
		"deal_id", deal.ID(),
		"result_id", result.ID(),
		"decision", eval.Recommendation.Decision.String(),
		"risk_score", eval.Risk.Score,
	)
	return ToUnderwritingResponse(result), nil
}
