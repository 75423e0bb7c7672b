//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

// Integration tests require a real spreadsheet and service account.
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_ReplaceTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	credsJSON := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
	credsFile := os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")
	if credsJSON == "" && credsFile == "" {
		t.Skip("service account not configured, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := New(ctx, Options{
		SpreadsheetID:   spreadsheetID,
		SheetName:       os.Getenv("GOOGLE_SHEET_NAME"),
		CredentialsJSON: credsJSON,
		CredentialsFile: credsFile,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	txs := []core.Transaction{
		{ID: 1, Date: time.Now().Format("2006-01-02"), Desc: "integration test", Amount: core.Money{Cents: 123}, Category: "Other"},
	}
	snap := ports.Snapshot{
		Transactions: txs,
		Summary:      core.ComputeAggregates(txs, core.FilterAll, core.Money{}),
		Breakdown:    core.ComputeCategoryBreakdown(txs),
		Version:      1,
	}

	if err := client.ReplaceTransactions(ctx, snap); err != nil {
		t.Fatalf("ReplaceTransactions failed: %v", err)
	}

	resp, err := client.svc.Spreadsheets.Values.Get(spreadsheetID, client.sheetName+"!A2:C2").Context(ctx).Do()
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if len(resp.Values) != 1 || len(resp.Values[0]) < 3 || resp.Values[0][2] != "integration test" {
		t.Fatalf("unexpected sheet contents: %v", resp.Values)
	}
}
