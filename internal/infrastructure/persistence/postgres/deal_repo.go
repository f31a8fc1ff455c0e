package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
	"github.com/bibbank/cre-underwriting/pkg/postgres"
)

const dealColumns = `
	id, tenant_id, created_by, deal_name, borrower_name, loan_amount,
	asset_type, loan_purpose, loan_type,
	property_address_line1, property_city, property_state, property_zip_code,
	status, version, created_at, updated_at`

// DealRepo implements port.DealRepository.
type DealRepo struct {
	db postgres.Querier
}

// NewDealRepo creates a new repository backed by PostgreSQL.
func NewDealRepo(db postgres.Querier) *DealRepo {
	return &DealRepo{db: db}
}

// FindByID retrieves a single deal within the tenant.
func (r *DealRepo) FindByID(ctx context.Context, tenantID, id string) (model.Deal, error) {
	if !validIDs(tenantID, id) {
		return model.Deal{}, port.ErrNotFound
	}
	query := `SELECT` + dealColumns + `
		FROM deals
		WHERE tenant_id = $1 AND id = $2
	`
	return scanDeal(r.db.QueryRow(ctx, query, tenantID, id))
}

// List returns one page of the tenant's deals, newest first, plus the total
// number of deals matching the filter.
func (r *DealRepo) List(ctx context.Context, tenantID string, filter port.DealFilter) ([]model.Deal, int, error) {
	if !validIDs(tenantID) {
		return nil, 0, nil
	}
	status := filter.Status.String()

	var total int
	countQuery := `
		SELECT count(*) FROM deals
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
	`
	if err := r.db.QueryRow(ctx, countQuery, tenantID, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count deals: %w", err)
	}

	query := `SELECT` + dealColumns + `
		FROM deals
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query deals: %w", err)
	}
	defer rows.Close()

	var result []model.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, d)
	}
	return result, total, rows.Err()
}

// saveDeal upserts a deal with optimistic locking on version.
func saveDeal(ctx context.Context, q postgres.Querier, d model.Deal) error {
	details := d.Details()
	query := `
		INSERT INTO deals (` + dealColumns + `
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (id) DO UPDATE SET
			status     = EXCLUDED.status,
			version    = deals.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE deals.version = $15
	`
	tag, err := q.Exec(ctx, query,
		d.ID(), d.TenantID(), d.CreatedBy(), details.DealName, details.BorrowerName, details.LoanAmount,
		details.AssetType, details.LoanPurpose, details.LoanType,
		details.Property.Line1, details.Property.City, details.Property.State, details.Property.ZipCode,
		d.Status().String(), d.Version(), d.CreatedAt(), d.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deal %s: %w", d.ID(), port.ErrConcurrentUpdate)
	}
	return nil
}

func scanDeal(s scannable) (model.Deal, error) {
	var (
		id, tenantID, createdBy string
		details                 model.DealDetails
		loanAmount              decimal.Decimal
		statusStr               string
		version                 int
		createdAt, updatedAt    time.Time
	)

	err := s.Scan(
		&id, &tenantID, &createdBy, &details.DealName, &details.BorrowerName, &loanAmount,
		&details.AssetType, &details.LoanPurpose, &details.LoanType,
		&details.Property.Line1, &details.Property.City, &details.Property.State, &details.Property.ZipCode,
		&statusStr, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Deal{}, scanErr(err, "deal")
	}
	details.LoanAmount = loanAmount

	status, err := valueobject.NewDealStatus(statusStr)
	if err != nil {
		return model.Deal{}, fmt.Errorf("parse deal status: %w", err)
	}
	return model.ReconstructDeal(id, tenantID, createdBy, details, status, version, createdAt, updatedAt), nil
}
