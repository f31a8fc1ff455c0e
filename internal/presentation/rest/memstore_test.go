package rest_test

import (
	"context"
	"slices"
	"sync"

	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

// memStore is an in-memory implementation of the repository ports and the
// unit of work, scoped per tenant like the Postgres adapters.
type memStore struct {
	mu         sync.Mutex
	deals      map[string]model.Deal
	dealOrder  []string
	financials map[string]model.PropertyFinancials
	results    []model.UnderwritingResult
	sheets     []model.TermSheet
}

func newMemStore() *memStore {
	return &memStore{
		deals:      map[string]model.Deal{},
		financials: map[string]model.PropertyFinancials{},
	}
}

type memDeals struct{ *memStore }

func (s memDeals) FindByID(_ context.Context, tenantID, id string) (model.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[id]
	if !ok || d.TenantID() != tenantID {
		return model.Deal{}, port.ErrNotFound
	}
	return d, nil
}

func (s memDeals) List(_ context.Context, tenantID string, f port.DealFilter) ([]model.Deal, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []model.Deal
	for _, id := range slices.Backward(s.dealOrder) {
		d := s.deals[id]
		if d.TenantID() != tenantID || (!f.Status.IsZero() && !d.Status().Equal(f.Status)) {
			continue
		}
		matched = append(matched, d)
	}
	total := len(matched)
	start := min(f.Offset, total)
	end := min(start+f.Limit, total)
	return matched[start:end], total, nil
}

type memFinancials struct{ *memStore }

func (s memFinancials) Upsert(_ context.Context, fin model.PropertyFinancials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.financials[fin.DealID] = fin
	return nil
}

func (s memFinancials) FindByDealID(_ context.Context, tenantID, dealID string) (model.PropertyFinancials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fin, ok := s.financials[dealID]
	if !ok || fin.TenantID != tenantID {
		return model.PropertyFinancials{}, port.ErrNotFound
	}
	return fin, nil
}

type memResults struct{ *memStore }

func (s memResults) FindByID(_ context.Context, tenantID, id string) (model.UnderwritingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.ID() == id && r.TenantID() == tenantID {
			return r, nil
		}
	}
	return model.UnderwritingResult{}, port.ErrNotFound
}

func (s memResults) FindByDealID(_ context.Context, tenantID, dealID string) ([]model.UnderwritingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.UnderwritingResult
	for _, r := range slices.Backward(s.results) {
		if r.DealID() == dealID && r.TenantID() == tenantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s memResults) LatestPerDeal(_ context.Context, tenantID string) ([]model.UnderwritingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []model.UnderwritingResult
	for _, r := range slices.Backward(s.results) {
		if r.TenantID() != tenantID || seen[r.DealID()] {
			continue
		}
		seen[r.DealID()] = true
		out = append(out, r)
	}
	return out, nil
}

type memSheets struct{ *memStore }

func (s memSheets) FindByID(_ context.Context, tenantID, id string) (model.TermSheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.sheets {
		if t.ID() == id && t.TenantID() == tenantID {
			return t, nil
		}
	}
	return model.TermSheet{}, port.ErrNotFound
}

func (s memSheets) FindByDealID(_ context.Context, tenantID, dealID string) ([]model.TermSheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TermSheet
	for _, t := range slices.Backward(s.sheets) {
		if t.DealID() == dealID && t.TenantID() == tenantID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s memSheets) NextVersion(_ context.Context, tenantID, dealID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := 1
	for _, t := range s.sheets {
		if t.DealID() == dealID && t.TenantID() == tenantID && t.Version() >= next {
			next = t.Version() + 1
		}
	}
	return next, nil
}

func (s *memStore) SaveDeal(_ context.Context, deal model.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putDeal(deal)
	return nil
}

func (s *memStore) SaveUnderwriting(_ context.Context, result model.UnderwritingResult, deal model.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	s.putDeal(deal)
	return nil
}

func (s *memStore) SaveTermSheet(_ context.Context, sheet model.TermSheet, deal model.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets = append(s.sheets, sheet)
	s.putDeal(deal)
	return nil
}

func (s *memStore) putDeal(deal model.Deal) {
	if _, ok := s.deals[deal.ID()]; !ok {
		s.dealOrder = append(s.dealOrder, deal.ID())
	}
	s.deals[deal.ID()] = deal.ClearEvents()
}

type noCache struct{}

func (noCache) Get(context.Context, string, string) (model.UnderwritingResult, bool, error) {
	return model.UnderwritingResult{}, false, nil
}

func (noCache) Put(context.Context, model.UnderwritingResult) error { return nil }

type noRecorder struct{}

func (noRecorder) RecordDecision(context.Context, valueobject.Decision, valueobject.RiskRating, float64) {}
