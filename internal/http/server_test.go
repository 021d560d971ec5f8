package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finovo/internal/auth"
	"finovo/internal/cache"
	"finovo/internal/core"
	"finovo/internal/finmath"
	"finovo/internal/metrics"
	"finovo/internal/retry"
	"finovo/internal/services"
	"finovo/internal/storage/memory"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	srv  *Server
	repo *memory.Store
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	repo := memory.New()
	authSvc := auth.NewService(repo, auth.NewMemorySessionStore(), time.Hour, auth.WithBcryptCost(bcrypt.MinCost))

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = 1
	policy.Sleep = func(context.Context, time.Duration) error { return nil }

	tiered := cache.NewTiered(cache.NewLRUCache[core.BudgetAnalysis](10, time.Minute), nil)
	dashboard := services.NewDashboardService(repo, tiered, nil)

	if opts.RateLimitPerMinute == 0 {
		opts.RateLimitPerMinute = 1000
	}
	srv := NewServer(Deps{
		Auth:      authSvc,
		Profiles:  services.NewProfileService(repo, policy, nil, dashboard, nil),
		Ledger:    services.NewLedgerService(repo, nil, dashboard, nil),
		Dashboard: dashboard,
		Accounts:  services.NewAccountService(repo, authSvc, nil, dashboard, nil),
		Checks:    []ReadyCheck{{Name: "repository", Ping: repo.Ping}},
	}, opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testServer{srv: srv, repo: repo}
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) signUp(t *testing.T, email string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/auth/signup", "", `{"email":"`+email+`","password":"secret123","name":"Asha"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sess sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	require.NotEmpty(t, sess.Token)
	return sess.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

func TestHealthAndReady(t *testing.T) {
	ts := newTestServer(t, Options{})

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := ts.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"), path)
	}
}

func TestReadyReportsFailingCheck(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.srv.deps.Checks = append(ts.srv.deps.Checks, ReadyCheck{Name: "redis", Ping: func(context.Context) error {
		return errors.New("connection refused")
	}})

	rec := ts.do(t, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.do(t, http.MethodGet, "/healthz", "", "")

	rec := ts.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "finovo_http_requests_total")
}

func TestCalculators(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		field  string
	}{
		{"sip", "/api/calc/sip", `{"monthly_amount":5000,"annual_return_pct":12,"years":10}`, http.StatusOK, "future_value"},
		{"sip schedule", "/api/calc/sip/schedule", `{"monthly_amount":5000,"annual_return_pct":12,"years":3}`, http.StatusOK, "year"},
		{"emi", "/api/calc/emi", `{"principal":1000000,"annual_rate_pct":8.5,"tenure_years":20}`, http.StatusOK, "monthly_emi"},
		{"emi schedule", "/api/calc/emi/schedule", `{"principal":100000,"annual_rate_pct":10,"tenure_years":2}`, http.StatusOK, "closing_balance"},
		{"retirement", "/api/calc/retirement", `{"current_age":30,"retirement_age":60,"monthly_expenses":50000,"inflation_pct":6,"expected_return_pct":12}`, http.StatusOK, "required_corpus"},
		{"goal", "/api/calc/goal", `{"target_amount":1000000,"years":5,"expected_return_pct":12}`, http.StatusOK, "required_monthly_sip"},
		{"schema rejects missing field", "/api/calc/sip", `{"monthly_amount":5000,"years":10}`, http.StatusUnprocessableEntity, CodeValidation},
		{"finmath rejects negative amount", "/api/calc/sip", `{"monthly_amount":-1,"annual_return_pct":12,"years":10}`, http.StatusUnprocessableEntity, "monthly amount"},
		{"retirement age order", "/api/calc/retirement", `{"current_age":60,"retirement_age":30,"monthly_expenses":1,"inflation_pct":6,"expected_return_pct":12}`, http.StatusUnprocessableEntity, "retirement age"},
		{"empty body", "/api/calc/emi", "", http.StatusBadRequest, CodeBadRequest},
		{"malformed json", "/api/calc/emi", `{"principal":`, http.StatusBadRequest, CodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.field)
		})
	}
}

func TestCalculatorOutcomeLabels(t *testing.T) {
	ts := newTestServer(t, Options{})
	runs := func(outcome string) float64 {
		return testutil.ToFloat64(metrics.CalculatorRuns.WithLabelValues(finmath.KindGoal.String(), outcome))
	}
	ok, rejected, bad := runs("ok"), runs("rejected"), runs("bad_request")

	ts.do(t, http.MethodPost, "/api/calc/goal", "", `{"target_amount":1000000,"years":5,"expected_return_pct":12}`)
	ts.do(t, http.MethodPost, "/api/calc/goal", "", `{"target_amount":1000000,"years":0,"expected_return_pct":12}`)
	ts.do(t, http.MethodPost, "/api/calc/goal", "", `{"years":5}`)
	ts.do(t, http.MethodPost, "/api/calc/goal", "", `{"target_amount":`)

	assert.Equal(t, 1.0, runs("ok")-ok)
	assert.Equal(t, 2.0, runs("rejected")-rejected)
	assert.Equal(t, 1.0, runs("bad_request")-bad)
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signUp(t, "asha@example.com")

	rec := ts.do(t, http.MethodPost, "/api/auth/signup", "", `{"email":"ASHA@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/signin", "", `{"email":"asha@example.com","password":"wrong-one"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.ErrInvalidCredentials.Error(), decodeError(t, rec).Message)

	rec = ts.do(t, http.MethodPost, "/api/auth/signin", "", `{"email":" Asha@Example.com ","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	rec = ts.do(t, http.MethodPost, "/api/auth/signout", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/profile", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionCookieAuthenticates(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signUp(t, "c@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	ts.srv.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	ts := newTestServer(t, Options{})
	for _, path := range []string{"/api/profile", "/api/expenses", "/api/investments", "/api/goals", "/api/dashboard", "/api/account/export"} {
		rec := ts.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, CodeUnauthorized, decodeError(t, rec).Code, path)
	}
}

func TestProfileAndDashboard(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signUp(t, "p@example.com")

	rec := ts.do(t, http.MethodGet, "/api/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pr struct {
		Complete bool     `json:"complete"`
		Missing  []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pr))
	assert.False(t, pr.Complete)
	assert.ElementsMatch(t, []string{"age", "monthly_income", "monthly_expense_target", "emergency_fund_target"}, pr.Missing)

	rec = ts.do(t, http.MethodGet, "/api/dashboard", token, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, CodeProfileRequired, decodeError(t, rec).Code)

	rec = ts.do(t, http.MethodPut, "/api/profile", token, `{"age": 0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/profile", token,
		`{"age":30,"monthly_income":100000,"monthly_expense_target":50000,"emergency_fund_target":300000,"risk_tolerance":"medium"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pr))
	assert.True(t, pr.Complete)
	assert.Empty(t, pr.Missing)

	today := time.Now().UTC().Format("2006-01-02")
	rec = ts.do(t, http.MethodPost, "/api/expenses", token, `{"category":"Food & Dining","amount":"1200.50","date":"`+today+`","type":"need"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/dashboard", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var a core.BudgetAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, int64(10000000), a.Income.Cents)
	assert.Equal(t, int64(120050), a.TotalSpent.Cents)
	assert.Equal(t, 1, a.Transactions)
}

func TestExpenseLifecycle(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signUp(t, "e@example.com")
	other := ts.signUp(t, "other@example.com")

	rec := ts.do(t, http.MethodPost, "/api/expenses", token, `{"category":"Travel","amount":4500,"date":"2024-03-01","type":"want","description":"Train"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var added services.AddedEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	require.Equal(t, core.KindExpense, added.Kind)
	id := added.Expense.ID

	rec = ts.do(t, http.MethodPatch, "/api/expenses/"+id, token, `{"type":"need"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"need"`)

	rec = ts.do(t, http.MethodPatch, "/api/expenses/"+id, other, `{"type":"want"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/expenses", other, "")
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = ts.do(t, http.MethodDelete, "/api/expenses/"+id, token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodDelete, "/api/expenses/"+id, token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSavingsExpenseBecomesInvestment(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signUp(t, "s@example.com")

	rec := ts.do(t, http.MethodPost, "/api/expenses", token, `{"category":"Gold","amount":10000,"date":"2024-03-01","type":"savings"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var added services.AddedEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	require.Equal(t, core.KindInvestment, added.Kind)
	assert.Equal(t, core.SavingsPlatform, added.Investment.Platform)

	rec = ts.do(t, http.MethodGet, "/api/investments", token, "")
	var invs []core.Investment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invs))
	require.Len(t, invs, 1)
	assert.Equal(t, int64(1000000), invs[0].CurrentValue.Cents)
}

func TestExpenseValidation(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signUp(t, "v@example.com")

	tests := []struct {
		name string
		body string
	}{
		{"bad type", `{"category":"Travel","amount":1,"date":"2024-03-01","type":"luxury"}`},
		{"zero amount", `{"category":"Travel","amount":0,"date":"2024-03-01","type":"want"}`},
		{"bad date", `{"category":"Travel","amount":1,"date":"2024-13-45","type":"want"}`},
		{"blank category", `{"category":"  ","amount":1,"date":"2024-03-01","type":"want"}`},
		{"overflowing amount", `{"category":"Travel","amount":100000000000000000000,"date":"2024-03-01","type":"want"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/expenses", token, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			assert.Equal(t, CodeValidation, decodeError(t, rec).Code)
		})
	}
}

func TestInvestmentAndGoalRoutes(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signUp(t, "i@example.com")

	rec := ts.do(t, http.MethodPost, "/api/investments", token, `{"type":"Stocks","amount":10000,"date":"2024-01-10","platform":"Zerodha"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var inv core.Investment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))

	rec = ts.do(t, http.MethodPatch, "/api/investments/"+inv.ID, token, `{"current_value":12500}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
	assert.Equal(t, int64(250000), inv.Returns.Cents)

	rec = ts.do(t, http.MethodPost, "/api/goals", token, `{"name":"House","target_amount":5000000,"target_date":"2030-01-01","priority":"high","category":"home"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var g core.Goal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))

	rec = ts.do(t, http.MethodPatch, "/api/goals/"+g.ID, token, `{"current_amount":1250000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.InDelta(t, 25.0, g.Progress(), 1e-9)

	rec = ts.do(t, http.MethodDelete, "/api/goals/"+g.ID, token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodDelete, "/api/investments/"+inv.ID, token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func listGoals(t *testing.T, ts *testServer, token string) []core.Goal {
	t.Helper()
	rec := ts.do(t, http.MethodGet, "/api/goals", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var goals []core.Goal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &goals))
	return goals
}

func TestProfilePutWithoutGoalsKeepsThem(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signUp(t, "keep@example.com")

	rec := ts.do(t, http.MethodPost, "/api/goals", token, `{"name":"Wedding","target_amount":800000,"target_date":"2027-02-14","priority":"medium","category":"wedding"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPut, "/api/profile", token, `{"age":30}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	goals := listGoals(t, ts, token)
	require.Len(t, goals, 1)
	assert.Equal(t, "Wedding", goals[0].Name)

	rec = ts.do(t, http.MethodPut, "/api/profile", token, `{"age":30,"financial_goals":[]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, listGoals(t, ts, token))
}

func TestProfilePutCannotTakeAnotherUsersGoal(t *testing.T) {
	ts := newTestServer(t, Options{})
	alice := ts.signUp(t, "alice@example.com")
	bob := ts.signUp(t, "bob@example.com")

	rec := ts.do(t, http.MethodPost, "/api/goals", alice, `{"name":"House","target_amount":5000000,"target_date":"2031-04-01","priority":"high","category":"home"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var g core.Goal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))

	body := `{"financial_goals":[{"id":"` + g.ID + `","name":"Mine now","target_amount":1,"priority":"low","category":"other"}]}`
	rec = ts.do(t, http.MethodPut, "/api/profile", bob, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	aliceGoals := listGoals(t, ts, alice)
	require.Len(t, aliceGoals, 1)
	assert.Equal(t, g.ID, aliceGoals[0].ID)
	assert.Equal(t, "House", aliceGoals[0].Name)

	bobGoals := listGoals(t, ts, bob)
	require.Len(t, bobGoals, 1)
	assert.NotEqual(t, g.ID, bobGoals[0].ID)
	assert.Equal(t, "Mine now", bobGoals[0].Name)
}

func TestCategories(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(t, http.MethodGet, "/api/categories", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, core.ExpenseCategories, body["expense_categories"])
	assert.Equal(t, core.InvestmentCategories, body["investment_categories"])
}

func TestAccountExportAndDelete(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signUp(t, "x@example.com")
	ts.do(t, http.MethodPost, "/api/expenses", token, `{"category":"Travel","amount":10,"date":"2024-03-01","type":"want"}`)

	rec := ts.do(t, http.MethodGet, "/api/account/export", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `attachment; filename="finovo-data-\d{4}-\d{2}-\d{2}\.json"`, rec.Header().Get("Content-Disposition"))
	var exp services.Export
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exp))
	assert.Equal(t, services.ExportedBy, exp.ExportedBy)
	assert.Len(t, exp.Expenses, 1)
	assert.Equal(t, "x@example.com", exp.User.Email)

	rec = ts.do(t, http.MethodDelete, "/api/account", token, `{"confirmation":"delete my account"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, services.DeleteConfirmation)

	rec = ts.do(t, http.MethodDelete, "/api/account", token, `{"confirmation":"DELETE MY ACCOUNT"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/expenses", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/auth/signin", "", `{"email":"x@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLearnPages(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(t, http.MethodGet, "/learn/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/learn/personal-finance"`)

	rec = ts.do(t, http.MethodGet, "/learn/personal-finance", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Personal Finance</h1>")
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = ts.do(t, http.MethodGet, "/learn/crypto", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRateLimitOnlyMutatingRequests(t *testing.T) {
	ts := newTestServer(t, Options{RateLimitPerMinute: 1})
	body := `{"monthly_amount":1,"annual_return_pct":1,"years":1}`

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/calc/sip", "", body).Code)
	rec := ts.do(t, http.MethodPost, "/api/calc/sip", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, CodeRateLimited, decodeError(t, rec).Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/healthz", "", "").Code)
}

func TestSuspiciousRequestRejected(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(t, http.MethodGet, "/.env", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{core.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{auth.ErrWeakPassword, http.StatusUnprocessableEntity},
		{core.ErrNotFound, http.StatusNotFound},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrConfirmationMismatch, http.StatusBadRequest},
		{badRequest{errors.New("x")}, http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _, _ := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}
