package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bibbank/cre-underwriting/internal/domain/model"
	"github.com/bibbank/cre-underwriting/internal/domain/valueobject"
)

const keyPrefix = "underwriting:result:"

// ResultCache implements port.ResultCache on Redis. Results are immutable
// once written, so entries never need invalidation and only expire.
type ResultCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewResultCache creates a cache whose entries live for ttl.
func NewResultCache(client redis.UniversalClient, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Get returns the cached result, or false on a miss.
func (c *ResultCache) Get(ctx context.Context, tenantID, id string) (model.UnderwritingResult, bool, error) {
	data, err := c.client.Get(ctx, key(tenantID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.UnderwritingResult{}, false, nil
	}
	if err != nil {
		return model.UnderwritingResult{}, false, fmt.Errorf("redis get: %w", err)
	}

	var rec cachedResult
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return model.UnderwritingResult{}, false, fmt.Errorf("decode cached result: %w", err)
	}
	r, err := rec.toModel()
	if err != nil {
		return model.UnderwritingResult{}, false, fmt.Errorf("decode cached result: %w", err)
	}
	return r, true, nil
}

// Put stores r under its tenant and ID.
func (c *ResultCache) Put(ctx context.Context, r model.UnderwritingResult) error {
	data, err := msgpack.Marshal(fromModel(r))
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, key(r.TenantID(), r.ID()), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *ResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func key(tenantID, id string) string {
	return keyPrefix + tenantID + ":" + id
}

// cachedResult is the msgpack wire form. Decimals travel as strings so the
// exact source precision survives; empty strings mark null values.
type cachedResult struct {
	ID            string    `msgpack:"id"`
	TenantID      string    `msgpack:"tenant_id"`
	DealID        string    `msgpack:"deal_id"`
	UnderwriterID string    `msgpack:"underwriter_id"`
	DSCR          string    `msgpack:"dscr"`
	LTV           string    `msgpack:"ltv"`
	LTC           string    `msgpack:"ltc,omitempty"`
	CapRate       string    `msgpack:"cap_rate"`
	CashFlow      string    `msgpack:"cash_flow"`
	NOI           string    `msgpack:"noi"`
	DebtService   string    `msgpack:"debt_service"`
	RiskScore     int       `msgpack:"risk_score"`
	RiskRating    string    `msgpack:"risk_rating"`
	RiskFactors   []string  `msgpack:"risk_factors"`
	Decision      string    `msgpack:"decision"`
	Amount        string    `msgpack:"approved_amount,omitempty"`
	ApprovedLTV   string    `msgpack:"approved_ltv,omitempty"`
	Rate          string    `msgpack:"approved_rate,omitempty"`
	TermMonths    *int      `msgpack:"approved_term_months,omitempty"`
	Conditions    string    `msgpack:"conditions"`
	Notes         string    `msgpack:"notes"`
	CreatedAt     time.Time `msgpack:"created_at"`
}

func fromModel(r model.UnderwritingResult) cachedResult {
	m, risk, rec := r.Metrics(), r.Risk(), r.Recommendation()
	return cachedResult{
		ID:            r.ID(),
		TenantID:      r.TenantID(),
		DealID:        r.DealID(),
		UnderwriterID: r.UnderwriterID(),
		DSCR:          m.DSCR.String(),
		LTV:           m.LTV.String(),
		LTC:           nullString(m.LTC),
		CapRate:       m.CapRate.String(),
		CashFlow:      m.CashFlow.String(),
		NOI:           m.NetOperatingIncome.String(),
		DebtService:   m.AnnualDebtService.String(),
		RiskScore:     risk.Score,
		RiskRating:    risk.Rating.String(),
		RiskFactors:   risk.Factors,
		Decision:      rec.Decision.String(),
		Amount:        nullString(rec.ApprovedAmount),
		ApprovedLTV:   nullString(rec.ApprovedLTV),
		Rate:          nullString(rec.ApprovedRate),
		TermMonths:    rec.ApprovedTermMonths,
		Conditions:    rec.Conditions,
		Notes:         rec.Notes,
		CreatedAt:     r.CreatedAt(),
	}
}

func (c cachedResult) toModel() (model.UnderwritingResult, error) {
	var (
		m    valueobject.Metrics
		risk = valueobject.RiskAssessment{Score: c.RiskScore, Factors: c.RiskFactors}
		rec  = valueobject.Recommendation{
			ApprovedTermMonths: c.TermMonths,
			Conditions:         c.Conditions,
			Notes:              c.Notes,
		}
		err error
	)
	decimals := []struct {
		src string
		dst *decimal.Decimal
	}{
		{c.DSCR, &m.DSCR},
		{c.LTV, &m.LTV},
		{c.CapRate, &m.CapRate},
		{c.CashFlow, &m.CashFlow},
		{c.NOI, &m.NetOperatingIncome},
		{c.DebtService, &m.AnnualDebtService},
	}
	for _, d := range decimals {
		if *d.dst, err = decimal.NewFromString(d.src); err != nil {
			return model.UnderwritingResult{}, err
		}
	}
	nullable := []struct {
		src string
		dst *decimal.NullDecimal
	}{
		{c.LTC, &m.LTC},
		{c.Amount, &rec.ApprovedAmount},
		{c.ApprovedLTV, &rec.ApprovedLTV},
		{c.Rate, &rec.ApprovedRate},
	}
	for _, d := range nullable {
		if d.src == "" {
			continue
		}
		v, err := decimal.NewFromString(d.src)
		if err != nil {
			return model.UnderwritingResult{}, err
		}
		*d.dst = decimal.NewNullDecimal(v)
	}

	if risk.Rating, err = valueobject.NewRiskRating(c.RiskRating); err != nil {
		return model.UnderwritingResult{}, err
	}
	if rec.Decision, err = valueobject.NewDecision(c.Decision); err != nil {
		return model.UnderwritingResult{}, err
	}
	return model.ReconstructUnderwritingResult(
		c.ID, c.TenantID, c.DealID, c.UnderwriterID, m, risk, rec, c.CreatedAt,
	), nil
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
