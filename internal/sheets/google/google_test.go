package google

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Options{SpreadsheetID: "abc"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "abc", CredentialsFile: "/non/existent.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReplaceTransactions_NoService(t *testing.T) {
	c := &Client{spreadsheetID: "abc", sheetName: defaultSheetName}
	if err := c.ReplaceTransactions(context.Background(), ports.Snapshot{}); err == nil {
		t.Fatalf("expected error without a service")
	}
}

func TestSnapshotRows(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Date: "2024-01-01", Desc: "salary", Amount: core.Money{Cents: 100000}, Category: core.IncomeCategory},
		{ID: 2, Date: "2024-01-02", Desc: "groceries", Amount: core.Money{Cents: 1250}, Category: "Food"},
	}
	snap := ports.Snapshot{
		Transactions: txs,
		Summary:      core.ComputeAggregates(txs, core.FilterAll, core.Money{Cents: 500}),
		Breakdown:    core.ComputeCategoryBreakdown(txs),
	}

	rows := snapshotRows(snap)

	// 6 summary lines + 1 breakdown line outnumber header + 2 transactions
	if len(rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][4] != "Category" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[2][2] != "groceries" || rows[2][3] != "12.50" {
		t.Fatalf("unexpected transaction row %v", rows[2])
	}
	if rows[3][6] != "Net balance" || rows[3][7] != "992.50" {
		t.Fatalf("unexpected net balance row %v", rows[3])
	}
	if rows[6][0] != "" || rows[6][6] != "Food" || rows[6][7] != "12.50" {
		t.Fatalf("unexpected breakdown row %v", rows[6])
	}
}

func TestSnapshotRowsManyTransactions(t *testing.T) {
	var txs []core.Transaction
	for i := 1; i <= 10; i++ {
		txs = append(txs, core.Transaction{ID: int64(i), Date: "d", Desc: "x", Amount: core.Money{Cents: 100}, Category: "Food"})
	}
	rows := snapshotRows(ports.Snapshot{Transactions: txs})
	if len(rows) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(rows))
	}
	if len(rows[10]) != 5 {
		t.Fatalf("rows past the side table should only carry transaction cells, got %v", rows[10])
	}
}

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`

func TestNew_OAuthInvalidClient(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "abc", OAuthClientJSON: "invalid-json"})
	if err == nil || !strings.Contains(err.Error(), "oauth config") {
		t.Fatalf("expected oauth config error, got: %v", err)
	}
}

func TestNew_OAuthMissingToken(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "abc", OAuthClientJSON: testOAuthClient})
	if !errors.Is(err, ErrMissingOAuthToken) {
		t.Fatalf("expected ErrMissingOAuthToken, got: %v", err)
	}
}

func TestNew_OAuthWithToken(t *testing.T) {
	c, err := New(context.Background(), Options{
		SpreadsheetID:   "abc",
		OAuthClientJSON: testOAuthClient,
		OAuthTokenJSON:  `{"access_token":"test","token_type":"Bearer"}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.svc == nil || c.sheetName != defaultSheetName {
		t.Fatalf("client not initialized: %+v", c)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := SaveToken(path, &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Mode().Perm() != 0o600 {
		t.Fatalf("unexpected token file mode: %v err=%v", info, err)
	}
	tok, err := LoadToken("", path)
	if err != nil || tok.RefreshToken != "r" {
		t.Fatalf("load: %+v err=%v", tok, err)
	}

	if _, err := LoadToken(`{"token_type":"Bearer"}`, ""); !errors.Is(err, ErrMissingOAuthToken) {
		t.Fatalf("expected ErrMissingOAuthToken for an empty token, got %v", err)
	}
	if _, err := LoadToken("", ""); !errors.Is(err, ErrMissingOAuthToken) {
		t.Fatalf("expected ErrMissingOAuthToken, got %v", err)
	}
	if _, err := OAuthConfig("", ""); !errors.Is(err, ErrMissingOAuthClient) {
		t.Fatalf("expected ErrMissingOAuthClient, got %v", err)
	}
}
