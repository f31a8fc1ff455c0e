package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
	"github.com/bibbank/cre-underwriting/pkg/postgres"
)

const resultColumns = `
	id, tenant_id, deal_id, underwriter_id,
	dscr, ltv, ltc, cap_rate, noi, debt_service, cash_flow,
	risk_score, risk_rating, risk_factors, decision,
	approved_amount, approved_ltv, approved_rate, approved_term_months,
	conditions, notes, created_at`

// UnderwritingResultRepo implements port.UnderwritingResultRepository.
type UnderwritingResultRepo struct {
	db postgres.Querier
}

// NewUnderwritingResultRepo creates a new repository backed by PostgreSQL.
func NewUnderwritingResultRepo(db postgres.Querier) *UnderwritingResultRepo {
	return &UnderwritingResultRepo{db: db}
}

// FindByID retrieves a single result within the tenant.
func (r *UnderwritingResultRepo) FindByID(ctx context.Context, tenantID, id string) (model.UnderwritingResult, error) {
	if !validIDs(tenantID, id) {
		return model.UnderwritingResult{}, port.ErrNotFound
	}
	query := `SELECT` + resultColumns + `
		FROM underwriting_results
		WHERE tenant_id = $1 AND id = $2
	`
	return scanResult(r.db.QueryRow(ctx, query, tenantID, id))
}

// FindByDealID retrieves every result of a deal, newest first.
func (r *UnderwritingResultRepo) FindByDealID(ctx context.Context, tenantID, dealID string) ([]model.UnderwritingResult, error) {
	if !validIDs(tenantID, dealID) {
		return nil, nil
	}
	query := `SELECT` + resultColumns + `
		FROM underwriting_results
		WHERE tenant_id = $1 AND deal_id = $2
		ORDER BY created_at DESC, id
	`
	return r.scanMany(ctx, query, tenantID, dealID)
}

// LatestPerDeal retrieves the most recent result of each deal in the tenant.
func (r *UnderwritingResultRepo) LatestPerDeal(ctx context.Context, tenantID string) ([]model.UnderwritingResult, error) {
	if !validIDs(tenantID) {
		return nil, nil
	}
	query := `SELECT DISTINCT ON (deal_id)` + resultColumns + `
		FROM underwriting_results
		WHERE tenant_id = $1
		ORDER BY deal_id, created_at DESC
	`
	return r.scanMany(ctx, query, tenantID)
}

func (r *UnderwritingResultRepo) scanMany(ctx context.Context, query string, args ...any) ([]model.UnderwritingResult, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query underwriting results: %w", err)
	}
	defer rows.Close()

	var result []model.UnderwritingResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, rows.Err()
}

// insertResult appends a result. Results are never updated.
func insertResult(ctx context.Context, q postgres.Querier, res model.UnderwritingResult) error {
	factors := res.Risk().Factors
	if factors == nil {
		factors = []string{}
	}
	factorsJSON, err := json.Marshal(factors)
	if err != nil {
		return fmt.Errorf("marshal risk factors: %w", err)
	}

	m := res.Metrics()
	rec := res.Recommendation()
	query := `
		INSERT INTO underwriting_results (` + resultColumns + `
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`
	_, err = q.Exec(ctx, query,
		res.ID(), res.TenantID(), res.DealID(), res.UnderwriterID(),
		m.DSCR, m.LTV, m.LTC, m.CapRate, m.NetOperatingIncome, m.AnnualDebtService, m.CashFlow,
		res.Risk().Score, res.Risk().Rating.String(), factorsJSON, rec.Decision.String(),
		rec.ApprovedAmount, rec.ApprovedLTV, rec.ApprovedRate, rec.ApprovedTermMonths,
		rec.Conditions, rec.Notes, res.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert underwriting result: %w", err)
	}
	return nil
}

func scanResult(s scannable) (model.UnderwritingResult, error) {
	var (
		id, tenantID, dealID, underwriterID string
		m                                   valueobject.Metrics
		risk                                valueobject.RiskAssessment
		rec                                 valueobject.Recommendation
		ratingStr, decisionStr              string
		factorsJSON                         []byte
		createdAt                           time.Time
	)

	err := s.Scan(
		&id, &tenantID, &dealID, &underwriterID,
		&m.DSCR, &m.LTV, &m.LTC, &m.CapRate, &m.NetOperatingIncome, &m.AnnualDebtService, &m.CashFlow,
		&risk.Score, &ratingStr, &factorsJSON, &decisionStr,
		&rec.ApprovedAmount, &rec.ApprovedLTV, &rec.ApprovedRate, &rec.ApprovedTermMonths,
		&rec.Conditions, &rec.Notes, &createdAt,
	)
	if err != nil {
		return model.UnderwritingResult{}, scanErr(err, "underwriting result")
	}

	if err := json.Unmarshal(factorsJSON, &risk.Factors); err != nil {
		return model.UnderwritingResult{}, fmt.Errorf("unmarshal risk factors: %w", err)
	}
	if risk.Rating, err = valueobject.NewRiskRating(ratingStr); err != nil {
		return model.UnderwritingResult{}, fmt.Errorf("parse risk rating: %w", err)
	}
	if rec.Decision, err = valueobject.NewDecision(decisionStr); err != nil {
		return model.UnderwritingResult{}, fmt.Errorf("parse decision: %w", err)
	}

	return model.ReconstructUnderwritingResult(id, tenantID, dealID, underwriterID, m, risk, rec, createdAt), nil
}
