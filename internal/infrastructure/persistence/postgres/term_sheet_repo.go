package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
	"github.com/bibbank/cre-underwriting/pkg/postgres"
)

const termSheetColumns = `
	id, tenant_id, deal_id, version,
	loan_amount, interest_rate, term_months, amortization_months, ltv,
	recourse_type, prepayment_penalty, origination_fee, conditions, expiration_date,
	status, generated_by, created_at`

// TermSheetRepo implements port.TermSheetRepository.
type TermSheetRepo struct {
	db postgres.Querier
}

// NewTermSheetRepo creates a new repository backed by PostgreSQL.
func NewTermSheetRepo(db postgres.Querier) *TermSheetRepo {
	return &TermSheetRepo{db: db}
}

// FindByID retrieves a term sheet within the tenant.
func (r *TermSheetRepo) FindByID(ctx context.Context, tenantID, id string) (model.TermSheet, error) {
	if !validIDs(tenantID, id) {
		return model.TermSheet{}, port.ErrNotFound
	}
	query := `SELECT` + termSheetColumns + `
		FROM term_sheets
		WHERE tenant_id = $1 AND id = $2
	`
	return scanTermSheet(r.db.QueryRow(ctx, query, tenantID, id))
}

// FindByDealID retrieves every version of a deal's term sheets, highest first.
func (r *TermSheetRepo) FindByDealID(ctx context.Context, tenantID, dealID string) ([]model.TermSheet, error) {
	if !validIDs(tenantID, dealID) {
		return nil, nil
	}
	query := `SELECT` + termSheetColumns + `
		FROM term_sheets
		WHERE tenant_id = $1 AND deal_id = $2
		ORDER BY version DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID, dealID)
	if err != nil {
		return nil, fmt.Errorf("query term sheets: %w", err)
	}
	defer rows.Close()

	var result []model.TermSheet
	for rows.Next() {
		ts, err := scanTermSheet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ts)
	}
	return result, rows.Err()
}

// NextVersion returns one more than the highest version recorded for the deal.
// Concurrent creators race on the (deal_id, version) unique key; the loser
// gets a unique violation.
func (r *TermSheetRepo) NextVersion(ctx context.Context, tenantID, dealID string) (int, error) {
	if !validIDs(tenantID, dealID) {
		return 1, nil
	}
	var next int
	query := `
		SELECT COALESCE(MAX(version), 0) + 1
		FROM term_sheets
		WHERE tenant_id = $1 AND deal_id = $2
	`
	if err := r.db.QueryRow(ctx, query, tenantID, dealID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next term sheet version: %w", err)
	}
	return next, nil
}

func insertTermSheet(ctx context.Context, q postgres.Querier, ts model.TermSheet) error {
	t := ts.Terms()
	query := `
		INSERT INTO term_sheets (` + termSheetColumns + `
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`
	_, err := q.Exec(ctx, query,
		ts.ID(), ts.TenantID(), ts.DealID(), ts.Version(),
		t.LoanAmount, t.InterestRate, t.TermMonths, t.AmortizationMonths, t.LTV,
		t.RecourseType.String(), t.PrepaymentPenalty, t.OriginationFee.Decimal, t.Conditions, t.ExpirationDate,
		ts.Status().String(), ts.GeneratedBy(), ts.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert term sheet: %w", err)
	}
	return nil
}

func scanTermSheet(s scannable) (model.TermSheet, error) {
	var (
		id, tenantID, dealID, generatedBy string
		version                           int
		t                                 model.TermSheetTerms
		recourseStr, statusStr            string
		expiration                        *time.Time
		createdAt                         time.Time
	)

	err := s.Scan(
		&id, &tenantID, &dealID, &version,
		&t.LoanAmount, &t.InterestRate, &t.TermMonths, &t.AmortizationMonths, &t.LTV,
		&recourseStr, &t.PrepaymentPenalty, &t.OriginationFee, &t.Conditions, &expiration,
		&statusStr, &generatedBy, &createdAt,
	)
	if err != nil {
		return model.TermSheet{}, scanErr(err, "term sheet")
	}
	t.ExpirationDate = expiration

	if t.RecourseType, err = valueobject.NewRecourseType(recourseStr); err != nil {
		return model.TermSheet{}, fmt.Errorf("parse recourse type: %w", err)
	}
	status, err := valueobject.NewTermSheetStatus(statusStr)
	if err != nil {
		return model.TermSheet{}, fmt.Errorf("parse term sheet status: %w", err)
	}
	return model.ReconstructTermSheet(id, tenantID, dealID, generatedBy, version, t, status, createdAt), nil
}
