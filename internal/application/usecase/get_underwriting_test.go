package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
	"github.com/bibbank/cre-underwriting/internal/application/usecase"
	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/internal/domain/service"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

func evaluatedResult(t *testing.T, dealID, noi, debtService, appraised string, loan int64) model.UnderwritingResult {
	t.Helper()
	deal := dealWithStatus(dealID, loan, valueobject.DealStatusIntake)
	eval := service.NewUnderwritingEngine().Evaluate(deal.Terms(), financials(dealID, noi, debtService, appraised).Statement)
	r, err := model.NewUnderwritingResult(testTenant, dealID, "uw-001", eval.Metrics, eval.Risk, eval.Recommendation, time.Now().UTC())
	require.NoError(t, err)
	return r
}

func TestGetUnderwritingResult(t *testing.T) {
	stored := evaluatedResult(t, "deal-1", "1200000", "800000", "15000000", 10_000_000)

	newRepo := func() *mockResultRepository {
		return &mockResultRepository{
			findByIDFunc: func(_ context.Context, _, id string) (model.UnderwritingResult, error) {
				if id != stored.ID() {
					return model.UnderwritingResult{}, port.ErrNotFound
				}
				return stored, nil
			},
		}
	}
	req := dto.GetUnderwritingRequest{TenantID: testTenant, ResultID: stored.ID()}

	t.Run("miss reads through and fills cache", func(t *testing.T) {
		repo := newRepo()
		cache := newMockResultCache()
		uc := usecase.NewGetUnderwritingResultUseCase(repo, cache, discardLogger())

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, stored.ID(), resp.ID)
		assert.Equal(t, 1, repo.findByIDCalls)

		_, err = uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.findByIDCalls, "second read should be served from cache")
	})

	t.Run("cache error degrades to repository", func(t *testing.T) {
		repo := newRepo()
		cache := newMockResultCache()
		cache.getErr = errors.New("redis timeout")
		uc := usecase.NewGetUnderwritingResultUseCase(repo, cache, discardLogger())

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "approve", resp.Decision)
		assert.Equal(t, 1, repo.findByIDCalls)
	})

	t.Run("unknown id", func(t *testing.T) {
		uc := usecase.NewGetUnderwritingResultUseCase(newRepo(), newMockResultCache(), discardLogger())
		_, err := uc.Execute(context.Background(), dto.GetUnderwritingRequest{TenantID: testTenant, ResultID: "nope"})
		assert.ErrorIs(t, err, usecase.ErrResultNotFound)
	})
}

func TestListDealUnderwriting(t *testing.T) {
	deal := dealWithStatus("deal-1", 10_000_000, valueobject.DealStatusApproved)
	r1 := evaluatedResult(t, "deal-1", "1200000", "800000", "15000000", 10_000_000)
	r2 := evaluatedResult(t, "deal-1", "500000", "500000", "8000000", 6_800_000)
	repo := &mockResultRepository{
		findByDealIDFunc: func(_ context.Context, _, _ string) ([]model.UnderwritingResult, error) {
			return []model.UnderwritingResult{r2, r1}, nil
		},
	}
	uc := usecase.NewListDealUnderwritingUseCase(dealLookup(deal), repo)

	out, err := uc.Execute(context.Background(), dto.ListDealUnderwritingRequest{TenantID: testTenant, DealID: "deal-1"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, r2.ID(), out[0].ID)
	assert.NotNil(t, out[0].RiskFactors)

	_, err = uc.Execute(context.Background(), dto.ListDealUnderwritingRequest{TenantID: "tenant-other", DealID: "deal-1"})
	assert.ErrorIs(t, err, usecase.ErrDealNotFound)
}
