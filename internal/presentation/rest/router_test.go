package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cre-underwriting/internal/application/usecase"
	"github.com/bibbank/cre-underwriting/internal/domain/service"
	"github.com/bibbank/cre-underwriting/internal/infrastructure/document"
	"github.com/bibbank/cre-underwriting/internal/presentation/rest"
	"github.com/bibbank/cre-underwriting/pkg/auth"
)

type apiFixture struct {
	server *httptest.Server
	jwt    *auth.JWTService
	tenant uuid.UUID
}

func newAPIFixture(t *testing.T, checks map[string]rest.Checker) *apiFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMemStore()
	deals := memDeals{store}
	fin := memFinancials{store}
	results := memResults{store}
	sheets := memSheets{store}

	api := rest.NewHandler(rest.UseCases{
		CreateDeal:       usecase.NewCreateDealUseCase(store, logger),
		GetDeal:          usecase.NewGetDealUseCase(deals),
		ListDeals:        usecase.NewListDealsUseCase(deals),
		UpsertFinancials: usecase.NewUpsertPropertyFinancialsUseCase(deals, fin),
		RunUnderwriting: usecase.NewRunUnderwritingUseCase(
			deals, fin, store, noCache{}, noRecorder{}, service.NewUnderwritingEngine(), logger,
		),
		GetUnderwriting:  usecase.NewGetUnderwritingResultUseCase(results, noCache{}, logger),
		ListUnderwriting: usecase.NewListDealUnderwritingUseCase(deals, results),
		PortfolioSummary: usecase.NewPortfolioSummaryUseCase(results),
		CreateTermSheet:  usecase.NewCreateTermSheetUseCase(deals, sheets, store, logger),
		GetTermSheet:     usecase.NewGetTermSheetUseCase(sheets),
		ListTermSheets:   usecase.NewListDealTermSheetsUseCase(deals, sheets),
		RenderTermSheet:  usecase.NewRenderTermSheetUseCase(deals, sheets, document.NewTermSheetRenderer()),
	}, logger)

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:     "rest-test-secret",
		Issuer:     "cre-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)

	router := rest.NewRouter(rest.RouterConfig{
		API:    api,
		Health: rest.NewHealthHandler("cre-underwriting", checks, logger),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "# metrics\n")
		}),
		JWT:         jwtSvc,
		CORSOrigins: []string{"https://app.example.com"},
		Logger:      logger,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &apiFixture{server: srv, jwt: jwtSvc, tenant: uuid.New()}
}

func (f *apiFixture) token(t *testing.T, roles ...string) string {
	t.Helper()
	tok, err := f.jwt.GenerateToken(uuid.New(), f.tenant, roles)
	require.NoError(t, err)
	return tok
}

type apiResponse struct {
	Status int
	Body   []byte
	Header http.Header
}

func (r apiResponse) envelope(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &out), string(r.Body))
	return out
}

func (r apiResponse) data(t *testing.T) map[string]any {
	t.Helper()
	env := r.envelope(t)
	require.Equal(t, true, env["success"], string(r.Body))
	data, ok := env["data"].(map[string]any)
	require.True(t, ok, string(r.Body))
	return data
}

func (f *apiFixture) do(t *testing.T, method, path, token, body string) apiResponse {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, f.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return apiResponse{Status: resp.StatusCode, Body: raw, Header: resp.Header}
}

const dealBody = `{
	"deal_name": "Harbor Point Retail",
	"borrower_name": "Harbor Point LLC",
	"loan_amount": 10000000,
	"asset_type": "retail",
	"loan_purpose": "purchase",
	"loan_type": "bridge",
	"property_city": "Tampa",
	"property_state": "FL"
}`

func (f *apiFixture) createDeal(t *testing.T, token string) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/deals", token, dealBody)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	return resp.data(t)["id"].(string)
}

func TestHealth_Liveness(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "ok", resp.envelope(t)["status"])
}

func TestHealth_ReadinessReportsFailingCheck(t *testing.T) {
	f := newAPIFixture(t, map[string]rest.Checker{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	resp := f.do(t, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	body := resp.envelope(t)
	assert.Equal(t, "unavailable", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["postgres"])
	assert.Equal(t, "connection refused", checks["redis"])
}

func TestMetricsIsPublic(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "# metrics")
}

func TestAPI_RequiresToken(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/api/deals", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestCreateDeal_ViewerForbidden(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/api/deals", f.token(t, auth.RoleViewer), dealBody)
	assert.Equal(t, http.StatusForbidden, resp.Status)
}

func TestCreateDeal_SchemaViolations(t *testing.T) {
	f := newAPIFixture(t, nil)
	tok := f.token(t, auth.RoleBroker)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{deal_name`},
		{"missing name", `{"loan_amount": 1, "asset_type": "retail", "loan_purpose": "purchase", "loan_type": "bridge"}`},
		{"zero amount", `{"deal_name": "x", "loan_amount": 0, "asset_type": "retail", "loan_purpose": "purchase", "loan_type": "bridge"}`},
		{"unknown asset type", `{"deal_name": "x", "loan_amount": 5, "asset_type": "castle", "loan_purpose": "purchase", "loan_type": "bridge"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(t, http.MethodPost, "/api/deals", tok, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Status)
			assert.Equal(t, "VALIDATION_ERROR", resp.envelope(t)["code"])
		})
	}
}

func TestDeals_CreateGetList(t *testing.T) {
	f := newAPIFixture(t, nil)
	tok := f.token(t, auth.RoleBroker)
	id := f.createDeal(t, tok)

	got := f.do(t, http.MethodGet, "/api/deals/"+id, tok, "")
	require.Equal(t, http.StatusOK, got.Status)
	data := got.data(t)
	assert.Equal(t, "Harbor Point Retail", data["deal_name"])
	assert.Equal(t, "intake", data["status"])
	assert.Equal(t, f.tenant.String(), data["org_id"])

	list := f.do(t, http.MethodGet, "/api/deals?status=intake&limit=5", tok, "")
	require.Equal(t, http.StatusOK, list.Status)
	page := list.data(t)
	assert.EqualValues(t, 1, page["total"])
	assert.EqualValues(t, 5, page["limit"])

	bad := f.do(t, http.MethodGet, "/api/deals?status=bogus", tok, "")
	assert.Equal(t, http.StatusBadRequest, bad.Status)
}

func TestDeals_OtherTenantSeesNotFound(t *testing.T) {
	f := newAPIFixture(t, nil)
	id := f.createDeal(t, f.token(t, auth.RoleBroker))

	other, err := f.jwt.GenerateToken(uuid.New(), uuid.New(), []string{auth.RoleAdmin})
	require.NoError(t, err)

	resp := f.do(t, http.MethodGet, "/api/deals/"+id, other, "")
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "DEAL_NOT_FOUND", resp.envelope(t)["code"])
}

func TestRunUnderwriting_WithoutFinancials(t *testing.T) {
	f := newAPIFixture(t, nil)
	id := f.createDeal(t, f.token(t, auth.RoleBroker))

	resp := f.do(t, http.MethodPost, "/api/underwriting/run", f.token(t, auth.RoleUnderwriter), `{"deal_id":"`+id+`"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "FINANCIALS_MISSING", resp.envelope(t)["code"])
}

func TestRunUnderwriting_BrokerForbidden(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/api/underwriting/run", f.token(t, auth.RoleBroker), `{"deal_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusForbidden, resp.Status)
}

func TestUnderwritingToTermSheetFlow(t *testing.T) {
	f := newAPIFixture(t, nil)
	broker := f.token(t, auth.RoleBroker)
	underwriter := f.token(t, auth.RoleUnderwriter)
	dealID := f.createDeal(t, broker)

	fin := f.do(t, http.MethodPut, "/api/deals/"+dealID+"/financials", broker,
		`{"net_operating_income": "1200000", "annual_debt_service": 800000, "appraised_value": "15000000"}`)
	require.Equal(t, http.StatusOK, fin.Status, string(fin.Body))

	run := f.do(t, http.MethodPost, "/api/underwriting/run", underwriter, `{"deal_id":"`+dealID+`"}`)
	require.Equal(t, http.StatusCreated, run.Status, string(run.Body))
	assert.Equal(t, "Underwriting analysis completed", run.envelope(t)["message"])
	result := run.data(t)
	assert.Equal(t, "approve", result["decision"])
	assert.Equal(t, "1.5", result["dscr"])
	ltc, hasLTC := result["ltc"]
	assert.True(t, hasLTC, "ltc key present")
	assert.Nil(t, ltc)
	resultID := result["id"].(string)

	got := f.do(t, http.MethodGet, "/api/underwriting/"+resultID, broker, "")
	require.Equal(t, http.StatusOK, got.Status)
	assert.Equal(t, resultID, got.data(t)["id"])

	history := f.do(t, http.MethodGet, "/api/underwriting/deal/"+dealID, broker, "")
	require.Equal(t, http.StatusOK, history.Status)
	var hist struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(history.Body, &hist))
	assert.Len(t, hist.Data, 1)

	summary := f.do(t, http.MethodGet, "/api/underwriting/summary", broker, "")
	require.Equal(t, http.StatusOK, summary.Status)
	assert.EqualValues(t, 1, summary.data(t)["deal_count"])

	sheet := f.do(t, http.MethodPost, "/api/term-sheets", underwriter, `{
		"deal_id": "`+dealID+`",
		"loan_amount": 9000000,
		"interest_rate": 8.25,
		"term_months": 60,
		"amortization_months": 360,
		"ltv": 60,
		"recourse_type": "non_recourse",
		"expiration_date": "2030-01-31"
	}`)
	require.Equal(t, http.StatusCreated, sheet.Status, string(sheet.Body))
	assert.Equal(t, "Term sheet created successfully", sheet.envelope(t)["message"])
	sheetData := sheet.data(t)
	assert.EqualValues(t, 1, sheetData["version"])
	sheetID := sheetData["id"].(string)

	deal := f.do(t, http.MethodGet, "/api/deals/"+dealID, broker, "")
	assert.Equal(t, "term_sheet_sent", deal.data(t)["status"])

	doc := f.do(t, http.MethodGet, "/api/term-sheets/"+sheetID+"/document", broker, "")
	require.Equal(t, http.StatusOK, doc.Status)
	assert.Contains(t, doc.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(doc.Body), "Harbor Point Retail")

	sheets := f.do(t, http.MethodGet, "/api/term-sheets/deal/"+dealID, broker, "")
	require.Equal(t, http.StatusOK, sheets.Status)

	rerun := f.do(t, http.MethodPost, "/api/underwriting/run", underwriter, `{"deal_id":"`+dealID+`"}`)
	require.Equal(t, http.StatusCreated, rerun.Status, string(rerun.Body))
	deal = f.do(t, http.MethodGet, "/api/deals/"+dealID, broker, "")
	assert.Equal(t, "approved", deal.data(t)["status"])
}

func TestRunUnderwriting_LTCWithProjectCost(t *testing.T) {
	f := newAPIFixture(t, nil)
	broker := f.token(t, auth.RoleBroker)
	dealID := f.createDeal(t, broker)

	fin := f.do(t, http.MethodPut, "/api/deals/"+dealID+"/financials", broker, `{
		"net_operating_income": 1200000,
		"annual_debt_service": 800000,
		"appraised_value": 15000000,
		"total_project_cost": "12500000"
	}`)
	require.Equal(t, http.StatusOK, fin.Status, string(fin.Body))

	run := f.do(t, http.MethodPost, "/api/underwriting/run", f.token(t, auth.RoleUnderwriter), `{"deal_id":"`+dealID+`"}`)
	require.Equal(t, http.StatusCreated, run.Status, string(run.Body))
	assert.Equal(t, "80", run.data(t)["ltc"])
}

func TestCreateTermSheet_Validation(t *testing.T) {
	f := newAPIFixture(t, nil)
	tok := f.token(t, auth.RoleUnderwriter)

	tests := []struct {
		name string
		body string
	}{
		{"rate above thirty", `{"deal_id":"` + uuid.NewString() + `","loan_amount":1,"interest_rate":31,"term_months":12}`},
		{"term above cap", `{"deal_id":"` + uuid.NewString() + `","loan_amount":1,"interest_rate":30,"term_months":30000}`},
		{"amortization above cap", `{"deal_id":"` + uuid.NewString() + `","loan_amount":1,"interest_rate":5,"term_months":12,"amortization_months":601}`},
		{"fractional term", `{"deal_id":"` + uuid.NewString() + `","loan_amount":1,"interest_rate":5,"term_months":1.5}`},
		{"bad recourse", `{"deal_id":"` + uuid.NewString() + `","loan_amount":1,"interest_rate":5,"term_months":12,"recourse_type":"maybe"}`},
		{"deal id not uuid", `{"deal_id":"abc","loan_amount":1,"interest_rate":5,"term_months":12}`},
		{"bad expiration", `{"deal_id":"` + uuid.NewString() + `","loan_amount":1,"interest_rate":5,"term_months":12,"expiration_date":"next week"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(t, http.MethodPost, "/api/term-sheets", tok, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Status, string(resp.Body))
		})
	}
}

func TestCreateTermSheet_OverlongTermLeavesDealUntouched(t *testing.T) {
	f := newAPIFixture(t, nil)
	broker := f.token(t, auth.RoleBroker)
	underwriter := f.token(t, auth.RoleUnderwriter)
	dealID := f.createDeal(t, broker)

	fin := f.do(t, http.MethodPut, "/api/deals/"+dealID+"/financials", broker,
		`{"net_operating_income": 1200000, "annual_debt_service": 800000, "appraised_value": 15000000}`)
	require.Equal(t, http.StatusOK, fin.Status, string(fin.Body))
	run := f.do(t, http.MethodPost, "/api/underwriting/run", underwriter, `{"deal_id":"`+dealID+`"}`)
	require.Equal(t, http.StatusCreated, run.Status, string(run.Body))

	resp := f.do(t, http.MethodPost, "/api/term-sheets", underwriter,
		`{"deal_id":"`+dealID+`","loan_amount":9000000,"interest_rate":30,"term_months":30000}`)
	assert.Equal(t, http.StatusBadRequest, resp.Status, string(resp.Body))

	sheets := f.do(t, http.MethodGet, "/api/term-sheets/deal/"+dealID, broker, "")
	require.Equal(t, http.StatusOK, sheets.Status)
	var list struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(sheets.Body, &list))
	assert.Empty(t, list.Data)

	deal := f.do(t, http.MethodGet, "/api/deals/"+dealID, broker, "")
	assert.Equal(t, "approved", deal.data(t)["status"])
}

func TestCreateTermSheet_IntakeDealConflicts(t *testing.T) {
	f := newAPIFixture(t, nil)
	dealID := f.createDeal(t, f.token(t, auth.RoleBroker))

	resp := f.do(t, http.MethodPost, "/api/term-sheets", f.token(t, auth.RoleAdmin),
		`{"deal_id":"`+dealID+`","loan_amount":1000000,"interest_rate":7,"term_months":36}`)
	assert.Equal(t, http.StatusConflict, resp.Status)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", resp.envelope(t)["code"])
}

func TestUnknownRoute(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "NOT_FOUND", resp.envelope(t)["code"])
}

func TestRequestIDIsEchoedInLogs(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := rest.NewRouter(rest.RouterConfig{
		API:    rest.NewHandler(rest.UseCases{}, logger),
		Health: rest.NewHealthHandler("cre-underwriting", nil, logger),
		Logger: logger,
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), `"path":"/healthz"`)
}
