package export

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNewSheetsClient_MissingSpreadsheetID(t *testing.T) {
	_, err := NewSheetsClient(context.Background(), "  ", "History")
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing spreadsheet id" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewSheetsClient_MissingCredentials(t *testing.T) {
	// Clear every credentials source so service creation must fail.
	for _, key := range []string{
		"GOOGLE_SERVICE_ACCOUNT_JSON",
		"GOOGLE_SERVICE_ACCOUNT_FILE",
		"GOOGLE_APPLICATION_CREDENTIALS",
	} {
		old := os.Getenv(key)
		defer os.Setenv(key, old)
		os.Unsetenv(key)
	}

	_, err := NewSheetsClient(context.Background(), "spreadsheet-id", "History")
	if err == nil {
		t.Fatal("expected error for missing service account credentials")
	}
	if !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHistoryRow(t *testing.T) {
	recorded := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	row := historyRow(Row{
		UserID:       "u1",
		EntryID:      "e1",
		TotalBalance: 160,
		TotalCredit:  260,
		TotalDebit:   40,
		RowCount:     3,
		RecordedAt:   recorded,
	})

	if len(row) != 7 {
		t.Fatalf("historyRow() has %d cells, want 7", len(row))
	}
	if row[0] != "2024-06-01T10:30:00Z" {
		t.Errorf("timestamp cell = %v", row[0])
	}
	if row[1] != "u1" || row[2] != "e1" {
		t.Errorf("id cells = %v/%v", row[1], row[2])
	}
	if row[3] != 160.0 || row[4] != 260.0 || row[5] != 40.0 {
		t.Errorf("total cells = %v/%v/%v", row[3], row[4], row[5])
	}
	if row[6] != 3 {
		t.Errorf("row count cell = %v", row[6])
	}
}

func TestMemoryAppender(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.AppendHistory(ctx, Row{UserID: "u1", EntryID: "e1"}); err != nil {
		t.Fatalf("AppendHistory() error = %v", err)
	}
	if err := m.AppendHistory(ctx, Row{UserID: "u1", EntryID: "e2"}); err != nil {
		t.Fatalf("AppendHistory() error = %v", err)
	}

	rows := m.Rows()
	if len(rows) != 2 {
		t.Fatalf("Rows() len = %d, want 2", len(rows))
	}
	if rows[0].EntryID != "e1" || rows[1].EntryID != "e2" {
		t.Fatalf("Rows() order = %s, %s", rows[0].EntryID, rows[1].EntryID)
	}

	// Mutating the snapshot must not reach the appender.
	rows[0].EntryID = "mutated"
	if m.Rows()[0].EntryID != "e1" {
		t.Fatal("Rows() snapshot shares memory with the appender")
	}
}
