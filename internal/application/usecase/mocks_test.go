package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
	"github.com/bibbank/cre-underwriting/pkg/events"
)

// --- Mock implementations ---

type mockDealRepository struct {
	findByIDFunc func(ctx context.Context, tenantID, id string) (model.Deal, error)
	listFunc     func(ctx context.Context, tenantID string, filter port.DealFilter) ([]model.Deal, int, error)
}

func (m *mockDealRepository) FindByID(ctx context.Context, tenantID, id string) (model.Deal, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.Deal{}, port.ErrNotFound
}

func (m *mockDealRepository) List(ctx context.Context, tenantID string, filter port.DealFilter) ([]model.Deal, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, tenantID, filter)
	}
	return nil, 0, nil
}

type mockFinancialsRepository struct {
	findFunc func(ctx context.Context, tenantID, dealID string) (model.PropertyFinancials, error)
	upserted []model.PropertyFinancials
}

func (m *mockFinancialsRepository) Upsert(_ context.Context, fin model.PropertyFinancials) error {
	m.upserted = append(m.upserted, fin)
	return nil
}

func (m *mockFinancialsRepository) FindByDealID(ctx context.Context, tenantID, dealID string) (model.PropertyFinancials, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, tenantID, dealID)
	}
	return model.PropertyFinancials{}, port.ErrNotFound
}

type mockResultRepository struct {
	findByIDFunc     func(ctx context.Context, tenantID, id string) (model.UnderwritingResult, error)
	findByDealIDFunc func(ctx context.Context, tenantID, dealID string) ([]model.UnderwritingResult, error)
	latest           []model.UnderwritingResult
	findByIDCalls    int
}

func (m *mockResultRepository) FindByID(ctx context.Context, tenantID, id string) (model.UnderwritingResult, error) {
	m.findByIDCalls++
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.UnderwritingResult{}, port.ErrNotFound
}

func (m *mockResultRepository) FindByDealID(ctx context.Context, tenantID, dealID string) ([]model.UnderwritingResult, error) {
	if m.findByDealIDFunc != nil {
		return m.findByDealIDFunc(ctx, tenantID, dealID)
	}
	return nil, nil
}

func (m *mockResultRepository) LatestPerDeal(_ context.Context, _ string) ([]model.UnderwritingResult, error) {
	return m.latest, nil
}

type mockTermSheetRepository struct {
	findByIDFunc func(ctx context.Context, tenantID, id string) (model.TermSheet, error)
	byDeal       []model.TermSheet
	nextVersion  int
}

func (m *mockTermSheetRepository) FindByID(ctx context.Context, tenantID, id string) (model.TermSheet, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.TermSheet{}, port.ErrNotFound
}

func (m *mockTermSheetRepository) FindByDealID(_ context.Context, _, _ string) ([]model.TermSheet, error) {
	return m.byDeal, nil
}

func (m *mockTermSheetRepository) NextVersion(_ context.Context, _, _ string) (int, error) {
	if m.nextVersion == 0 {
		return 1, nil
	}
	return m.nextVersion, nil
}

type mockUnitOfWork struct {
	err          error
	savedResults []model.UnderwritingResult
	savedDeals   []model.Deal
	savedSheets  []model.TermSheet
}

func (m *mockUnitOfWork) SaveUnderwriting(_ context.Context, result model.UnderwritingResult, deal model.Deal) error {
	if m.err != nil {
		return m.err
	}
	m.savedResults = append(m.savedResults, result)
	m.savedDeals = append(m.savedDeals, deal)
	return nil
}

func (m *mockUnitOfWork) SaveTermSheet(_ context.Context, sheet model.TermSheet, deal model.Deal) error {
	if m.err != nil {
		return m.err
	}
	m.savedSheets = append(m.savedSheets, sheet)
	m.savedDeals = append(m.savedDeals, deal)
	return nil
}

func (m *mockUnitOfWork) SaveDeal(_ context.Context, deal model.Deal) error {
	if m.err != nil {
		return m.err
	}
	m.savedDeals = append(m.savedDeals, deal)
	return nil
}

type mockResultCache struct {
	entries map[string]model.UnderwritingResult
	getErr  error
	putErr  error
}

func newMockResultCache() *mockResultCache {
	return &mockResultCache{entries: map[string]model.UnderwritingResult{}}
}

func (m *mockResultCache) Get(_ context.Context, tenantID, id string) (model.UnderwritingResult, bool, error) {
	if m.getErr != nil {
		return model.UnderwritingResult{}, false, m.getErr
	}
	r, ok := m.entries[tenantID+"/"+id]
	return r, ok, nil
}

func (m *mockResultCache) Put(_ context.Context, r model.UnderwritingResult) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[r.TenantID()+"/"+r.ID()] = r
	return nil
}

type mockDecisionRecorder struct {
	decisions []string
}

func (m *mockDecisionRecorder) RecordDecision(_ context.Context, d valueobject.Decision, _ valueobject.RiskRating, _ float64) {
	m.decisions = append(m.decisions, d.String())
}

type mockRenderer struct{}

func (mockRenderer) RenderTermSheet(sheet model.TermSheet, deal model.Deal) ([]byte, error) {
	return fmt.Appendf(nil, "<h1>%s v%d</h1>", deal.DealName(), sheet.Version()), nil
}

type mockOutboxStore struct {
	pending []events.OutboxEntry
	marked  []string
}

func (m *mockOutboxStore) FetchUnpublished(_ context.Context, limit int) ([]events.OutboxEntry, error) {
	n := min(limit, len(m.pending))
	batch := m.pending[:n]
	return batch, nil
}

func (m *mockOutboxStore) MarkPublished(_ context.Context, ids []string) error {
	m.marked = append(m.marked, ids...)
	m.pending = m.pending[len(ids):]
	return nil
}

type mockEventPublisher struct {
	err       error
	published []events.OutboxEntry
}

func (m *mockEventPublisher) PublishOutbox(_ context.Context, entries ...events.OutboxEntry) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, entries...)
	return nil
}

// --- Fixtures ---

const testTenant = "tenant-001"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dealWithStatus(id string, loan int64, status valueobject.DealStatus) model.Deal {
	now := time.Now().UTC()
	return model.ReconstructDeal(id, testTenant, "broker-001", model.DealDetails{
		DealName:    "Harbor Point Retail",
		LoanAmount:  decimal.NewFromInt(loan),
		AssetType:   "retail",
		LoanPurpose: "purchase",
		LoanType:    "bridge",
	}, status, 1, now, now)
}

func financials(dealID, noi, debtService, appraised string) model.PropertyFinancials {
	return model.PropertyFinancials{
		DealID:   dealID,
		TenantID: testTenant,
		Statement: valueobject.RawFinancialStatement{
			NetOperatingIncome: noi,
			AnnualDebtService:  debtService,
			AppraisedValue:     appraised,
		}.Parse(),
		UpdatedAt: time.Now().UTC(),
	}
}
