package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cre-underwriting/internal/application/dto"
	"github.com/bibbank/cre-underwriting/internal/application/usecase"
	"github.com/bibbank/cre-underwriting/internal/domain/event"
	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

func TestCreateDeal(t *testing.T) {
	t.Run("persists deal in intake with created event", func(t *testing.T) {
		uow := &mockUnitOfWork{}
		uc := usecase.NewCreateDealUseCase(uow, discardLogger())

		resp, err := uc.Execute(context.Background(), dto.CreateDealRequest{
			TenantID:     testTenant,
			UserID:       "broker-001",
			DealName:     "Maple Court Apartments",
			LoanAmount:   decimal.NewFromInt(4_500_000),
			AssetType:    "multifamily",
			LoanPurpose:  "purchase",
			LoanType:     "bridge",
			PropertyCity: "Austin",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, testTenant, resp.TenantID)
		assert.Equal(t, "intake", resp.Status)
		assert.Equal(t, "Austin", resp.PropertyCity)
		assert.Equal(t, "broker-001", resp.CreatedBy)

		require.Len(t, uow.savedDeals, 1)
		evts := uow.savedDeals[0].DomainEvents()
		require.Len(t, evts, 1)
		assert.Equal(t, event.TypeDealCreated, evts[0].EventType())
	})

	t.Run("rejects non-positive loan amount", func(t *testing.T) {
		uow := &mockUnitOfWork{}
		uc := usecase.NewCreateDealUseCase(uow, discardLogger())

		_, err := uc.Execute(context.Background(), dto.CreateDealRequest{
			TenantID:   testTenant,
			DealName:   "Empty",
			LoanAmount: decimal.Zero,
			AssetType:  "office",
		})
		assert.ErrorIs(t, err, usecase.ErrInvalidInput)
		assert.Empty(t, uow.savedDeals)
	})
}

func TestGetDeal_NotFound(t *testing.T) {
	uc := usecase.NewGetDealUseCase(&mockDealRepository{})

	_, err := uc.Execute(context.Background(), dto.GetDealRequest{TenantID: testTenant, DealID: "missing"})
	assert.ErrorIs(t, err, usecase.ErrDealNotFound)
}

func TestListDeals(t *testing.T) {
	var got port.DealFilter
	repo := &mockDealRepository{
		listFunc: func(_ context.Context, _ string, filter port.DealFilter) ([]model.Deal, int, error) {
			got = filter
			return []model.Deal{dealWithStatus("deal-1", 1_000_000, valueobject.DealStatusApproved)}, 7, nil
		},
	}
	uc := usecase.NewListDealsUseCase(repo)

	tests := []struct {
		name       string
		req        dto.ListDealsRequest
		wantLimit  int
		wantOffset int
	}{
		{"defaults", dto.ListDealsRequest{}, 20, 0},
		{"caps limit", dto.ListDealsRequest{Limit: 500, Offset: 40}, 100, 40},
		{"negative offset", dto.ListDealsRequest{Limit: 5, Offset: -3}, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.TenantID = testTenant
			resp, err := uc.Execute(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
			assert.Equal(t, 7, resp.Total)
			require.Len(t, resp.Deals, 1)
			assert.Equal(t, "approved", resp.Deals[0].Status)
		})
	}

	t.Run("status filter", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.ListDealsRequest{TenantID: testTenant, Status: "approved"})
		require.NoError(t, err)
		assert.Equal(t, valueobject.DealStatusApproved, got.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.ListDealsRequest{TenantID: testTenant, Status: "funded"})
		assert.ErrorIs(t, err, usecase.ErrInvalidInput)
	})
}

func TestUpsertPropertyFinancials(t *testing.T) {
	deal := dealWithStatus("deal-1", 1_000_000, valueobject.DealStatusIntake)
	deals := &mockDealRepository{
		findByIDFunc: func(_ context.Context, _, id string) (model.Deal, error) {
			if id != deal.ID() {
				return model.Deal{}, port.ErrNotFound
			}
			return deal, nil
		},
	}

	t.Run("parses raw amounts", func(t *testing.T) {
		repo := &mockFinancialsRepository{}
		uc := usecase.NewUpsertPropertyFinancialsUseCase(deals, repo)

		resp, err := uc.Execute(context.Background(), dto.UpsertFinancialsRequest{
			TenantID:           testTenant,
			DealID:             "deal-1",
			NetOperatingIncome: " 250000.50 ",
			AnnualDebtService:  "not-a-number",
			AppraisedValue:     "3100000",
		})
		require.NoError(t, err)

		assert.Equal(t, "250000.5", resp.NetOperatingIncome.String())
		assert.True(t, resp.AnnualDebtService.IsZero())
		assert.True(t, resp.AppraisedValue.Valid)
		assert.False(t, resp.PurchasePrice.Valid)
		assert.False(t, resp.TotalProjectCost.Valid)
		require.Len(t, repo.upserted, 1)
		assert.Equal(t, testTenant, repo.upserted[0].TenantID)
	})

	t.Run("rejects negative debt service", func(t *testing.T) {
		repo := &mockFinancialsRepository{}
		uc := usecase.NewUpsertPropertyFinancialsUseCase(deals, repo)

		_, err := uc.Execute(context.Background(), dto.UpsertFinancialsRequest{
			TenantID:          testTenant,
			DealID:            "deal-1",
			AnnualDebtService: "-10",
		})
		assert.ErrorIs(t, err, usecase.ErrInvalidInput)
		assert.Empty(t, repo.upserted)
	})

	t.Run("unknown deal", func(t *testing.T) {
		repo := &mockFinancialsRepository{}
		uc := usecase.NewUpsertPropertyFinancialsUseCase(deals, repo)

		_, err := uc.Execute(context.Background(), dto.UpsertFinancialsRequest{TenantID: testTenant, DealID: "nope"})
		assert.ErrorIs(t, err, usecase.ErrDealNotFound)
	})
}
