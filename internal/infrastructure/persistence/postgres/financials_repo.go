package postgres

import (
	"context"
	"fmt"

	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/port"
	"github.com/bibbank/cre-underwriting/pkg/postgres"
)

// FinancialsRepo implements port.PropertyFinancialsRepository.
type FinancialsRepo struct {
	db postgres.Querier
}

// NewFinancialsRepo creates a new repository backed by PostgreSQL.
func NewFinancialsRepo(db postgres.Querier) *FinancialsRepo {
	return &FinancialsRepo{db: db}
}

// Upsert replaces the deal's financial statement.
func (r *FinancialsRepo) Upsert(ctx context.Context, fin model.PropertyFinancials) error {
	query := `
		INSERT INTO property_financials (
			deal_id, tenant_id, net_operating_income, annual_debt_service,
			purchase_price, appraised_value, total_project_cost, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (deal_id) DO UPDATE SET
			net_operating_income = EXCLUDED.net_operating_income,
			annual_debt_service  = EXCLUDED.annual_debt_service,
			purchase_price       = EXCLUDED.purchase_price,
			appraised_value      = EXCLUDED.appraised_value,
			total_project_cost   = EXCLUDED.total_project_cost,
			updated_at           = EXCLUDED.updated_at
		WHERE property_financials.tenant_id = EXCLUDED.tenant_id
	`
	st := fin.Statement
	tag, err := r.db.Exec(ctx, query,
		fin.DealID, fin.TenantID, st.NetOperatingIncome, st.AnnualDebtService,
		st.PurchasePrice, st.AppraisedValue, st.TotalProjectCost, fin.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save property financials: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

// FindByDealID retrieves the financial statement of a deal within the tenant.
func (r *FinancialsRepo) FindByDealID(ctx context.Context, tenantID, dealID string) (model.PropertyFinancials, error) {
	if !validIDs(tenantID, dealID) {
		return model.PropertyFinancials{}, port.ErrNotFound
	}
	query := `
		SELECT deal_id, tenant_id, net_operating_income, annual_debt_service,
		       purchase_price, appraised_value, total_project_cost, updated_at
		FROM property_financials
		WHERE tenant_id = $1 AND deal_id = $2
	`
	var fin model.PropertyFinancials
	st := &fin.Statement
	err := r.db.QueryRow(ctx, query, tenantID, dealID).Scan(
		&fin.DealID, &fin.TenantID, &st.NetOperatingIncome, &st.AnnualDebtService,
		&st.PurchasePrice, &st.AppraisedValue, &st.TotalProjectCost, &fin.UpdatedAt,
	)
	if err != nil {
		return model.PropertyFinancials{}, scanErr(err, "property financials")
	}
	return fin, nil
}
