package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"findash/internal/core"
	"findash/internal/store"
)

func entry(id string, balance, credit, debit float64) core.HistoryEntry {
	return core.HistoryEntry{
		ID:   id,
		Rows: []core.Record{{"DrCr": "Cr", "balance": "100"}},
		Summary: core.Summary{
			TotalBalance: balance,
			TotalCredit:  credit,
			TotalDebit:   debit,
		},
		CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPutUserAndGetUser(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	p := core.UserProfile{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "$2a$10$x"}
	if err := s.PutUser(ctx, p); err != nil {
		t.Fatalf("PutUser() error = %v", err)
	}

	got, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got != p {
		t.Fatalf("GetUser() = %+v, want %+v", got, p)
	}

	if _, err := s.GetUser(ctx, "nobody"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("GetUser(unknown) error = %v, want ErrUserNotFound", err)
	}
}

func TestPutUserDuplicateKeepsFirstProfile(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	first := core.UserProfile{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "h1"}
	if err := s.PutUser(ctx, first); err != nil {
		t.Fatalf("PutUser() error = %v", err)
	}

	second := core.UserProfile{ID: "u1", Name: "Eve", Email: "eve@example.com", PasswordHash: "h2"}
	if err := s.PutUser(ctx, second); !errors.Is(err, store.ErrUserExists) {
		t.Fatalf("PutUser(duplicate) error = %v, want ErrUserExists", err)
	}

	got, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got != first {
		t.Fatalf("stored profile = %+v, want the first registration %+v", got, first)
	}
}

func TestHistoryAppendOnly(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if _, err := s.LatestEntry(ctx, "u1"); !errors.Is(err, store.ErrNoHistory) {
		t.Fatalf("LatestEntry(empty) error = %v, want ErrNoHistory", err)
	}

	e1 := entry("e1", 160, 260, 40)
	e2 := entry("e2", 40, 0, 120)
	if err := s.AppendEntry(ctx, "u1", e1); err != nil {
		t.Fatalf("AppendEntry() error = %v", err)
	}
	if err := s.AppendEntry(ctx, "u1", e2); err != nil {
		t.Fatalf("AppendEntry() error = %v", err)
	}

	entries, err := s.ListEntries(ctx, "u1")
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListEntries() len = %d, want 2", len(entries))
	}
	if entries[0].ID != "e1" || entries[1].ID != "e2" {
		t.Fatalf("ListEntries() order = %s,%s, want e1,e2", entries[0].ID, entries[1].ID)
	}

	latest, err := s.LatestEntry(ctx, "u1")
	if err != nil {
		t.Fatalf("LatestEntry() error = %v", err)
	}
	if latest.ID != "e2" {
		t.Fatalf("LatestEntry() = %s, want e2", latest.ID)
	}

	other, err := s.ListEntries(ctx, "u2")
	if err != nil {
		t.Fatalf("ListEntries(u2) error = %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("ListEntries(u2) len = %d, want 0", len(other))
	}
}

func TestReopenSeesPersistedState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	p := core.UserProfile{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "h"}
	if err := s.PutUser(ctx, p); err != nil {
		t.Fatalf("PutUser() error = %v", err)
	}
	if err := s.AppendEntry(ctx, "u1", entry("e1", 160, 260, 40)); err != nil {
		t.Fatalf("AppendEntry() error = %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	got, err := reopened.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser() after reopen error = %v", err)
	}
	if got != p {
		t.Fatalf("GetUser() after reopen = %+v, want %+v", got, p)
	}
	entries, err := reopened.ListEntries(ctx, "u1")
	if err != nil {
		t.Fatalf("ListEntries() after reopen error = %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "e1" {
		t.Fatalf("ListEntries() after reopen = %+v", entries)
	}
	if entries[0].TotalCredit != 260 || entries[0].Rows[0]["balance"] != "100" {
		t.Fatalf("entry payload lost on reopen: %+v", entries[0])
	}
}

func TestDocumentShapeOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	p := core.UserProfile{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "secret-hash"}
	if err := s.PutUser(ctx, p); err != nil {
		t.Fatalf("PutUser() error = %v", err)
	}
	if err := s.AppendEntry(ctx, "u1", entry("e1", 160, 260, 40)); err != nil {
		t.Fatalf("AppendEntry() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "user_data.json"))
	if err != nil {
		t.Fatalf("read users document: %v", err)
	}
	var users map[string]map[string]string
	if err := json.Unmarshal(raw, &users); err != nil {
		t.Fatalf("users document is not an id-keyed object: %v", err)
	}
	if users["u1"]["password"] != "secret-hash" {
		t.Fatalf("users document = %v, want hash under \"password\"", users["u1"])
	}

	raw, err = os.ReadFile(filepath.Join(dir, "transaction_logs.json"))
	if err != nil {
		t.Fatalf("read history document: %v", err)
	}
	var history map[string][]map[string]any
	if err := json.Unmarshal(raw, &history); err != nil {
		t.Fatalf("history document is not an id-keyed object: %v", err)
	}
	got := history["u1"][0]
	for _, key := range []string{"transactions", "total_balance", "total_credit", "total_debit", "timestamp"} {
		if _, ok := got[key]; !ok {
			t.Fatalf("history entry missing %q: %v", key, got)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "transaction_logs.json.tmp")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("temp file left behind after rewrite")
	}
}
