package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finovo/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func TestNewClient_MissingSpreadsheetID(t *testing.T) {
	_, err := NewClient(context.Background(), "  ", "")
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewSheetsService_MissingCredentials(t *testing.T) {
	for _, k := range []string{"GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_SERVICE_ACCOUNT_FILE", "GOOGLE_APPLICATION_CREDENTIALS", "GOOGLE_OAUTH_CLIENT_JSON", "GOOGLE_OAUTH_CLIENT_FILE"} {
		t.Setenv(k, "")
	}
	_, err := newSheetsService(context.Background())
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewSheetsService_UnreadableFile(t *testing.T) {
	t.Setenv("GOOGLE_OAUTH_CLIENT_JSON", "")
	t.Setenv("GOOGLE_OAUTH_CLIENT_FILE", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "/nonexistent/sa.json")
	_, err := newSheetsService(context.Background())
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRows(t *testing.T) {
	e := core.Expense{ID: "e1", UserID: "u1", Category: "Travel", Description: "train",
		Amount: core.Money{Cents: 123456}, Date: core.NewDate(2024, 4, 9), Type: core.ExpenseWant}
	row := expenseRow(e)
	if len(row) != len(Header) {
		t.Fatalf("expense row has %d cells, header %d", len(row), len(Header))
	}
	if row[0] != "2024-04-09" || row[1] != "expense" || row[4] != "want" || row[5] != 1234.56 {
		t.Errorf("unexpected expense row: %v", row)
	}

	i := core.Investment{ID: "i1", UserID: "u1", Type: "Gold", Platform: "Savings",
		Amount: core.Money{Cents: 10000}, CurrentValue: core.Money{Cents: 12500}, Returns: core.Money{Cents: 2500},
		Date: core.NewDate(2024, 4, 10)}
	row = investmentRow(i)
	if len(row) != len(Header) {
		t.Fatalf("investment row has %d cells, header %d", len(row), len(Header))
	}
	if row[3] != "Savings" || row[6] != 125.0 || row[7] != 25.0 || row[8] != "i1" {
		t.Errorf("unexpected investment row: %v", row)
	}
}

func TestAppendExpense(t *testing.T) {
	var gotPath string
	var gotBody gsheet.ValueRange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"updates":{"updatedRange":"Ledger!A7:J7"}}`)
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithHTTPClient(srv.Client()),
		goption.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	client := NewWithService(svc, "sheet-1", "")

	ref, err := client.AppendExpense(context.Background(), core.Expense{ID: "e1", UserID: "u1", Category: "Travel",
		Amount: core.Money{Cents: 500}, Date: core.NewDate(2024, 1, 2), Type: core.ExpenseNeed})
	if err != nil {
		t.Fatalf("AppendExpense: %v", err)
	}
	if ref != "Ledger!A7:J7" {
		t.Errorf("ref = %q", ref)
	}
	if !strings.Contains(gotPath, "/spreadsheets/sheet-1/values/") || !strings.HasSuffix(gotPath, ":append") {
		t.Errorf("unexpected request path %q", gotPath)
	}
	if len(gotBody.Values) != 1 || len(gotBody.Values[0]) != len(Header) {
		t.Errorf("unexpected body: %+v", gotBody.Values)
	}
}

func TestAppendValidatesAndNeedsService(t *testing.T) {
	client := NewWithService(nil, "sheet-1", "Ledger")
	if _, err := client.AppendExpense(context.Background(), core.Expense{}); err == nil {
		t.Error("expected validation error")
	}
	_, err := client.AppendInvestment(context.Background(), core.Investment{Type: "Gold", Amount: core.Money{Cents: 1}, Date: core.NewDate(2024, 1, 1)})
	if err == nil || err.Error() != "sheets service not initialized" {
		t.Errorf("unexpected error: %v", err)
	}
}
