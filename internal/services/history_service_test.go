package services

import (
	"context"
	"errors"
	"testing"

	"findash/internal/amqp"
	"findash/internal/core"
	"findash/internal/store/memory"
)

type fakePublisher struct {
	messages []*amqp.HistoryRecordedMessage
	err      error
}

func (f *fakePublisher) PublishHistoryRecorded(_ context.Context, msg *amqp.HistoryRecordedMessage) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func dataset(rows ...[]string) core.Dataset {
	ds := core.Dataset{Columns: []string{"DrCr", "balance"}}
	for _, row := range rows {
		ds.Records = append(ds.Records, core.Record{"DrCr": row[0], "balance": row[1]})
	}
	return ds
}

func TestRecordUpload(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewHistoryService(memory.New(), pub)

	entry, err := svc.RecordUpload(ctx, "u1", dataset(
		[]string{"Cr", "100"},
		[]string{"Db", "40"},
		[]string{"Cr", "160"},
	))
	if err != nil {
		t.Fatalf("RecordUpload() error = %v", err)
	}
	if entry.ID == "" {
		t.Fatal("entry has no id")
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("entry has no timestamp")
	}
	if entry.TotalCredit != 260 || entry.TotalDebit != 40 || entry.TotalBalance != 160 {
		t.Fatalf("entry totals = %+v", entry.Summary)
	}
	if len(entry.Rows) != 3 {
		t.Fatalf("entry rows = %d, want 3", len(entry.Rows))
	}

	stored, err := svc.History(ctx, "u1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(stored) != 1 || stored[0].ID != entry.ID {
		t.Fatalf("History() = %+v, want the recorded entry", stored)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.UserID != "u1" || msg.EntryID != entry.ID || msg.RowCount != 3 {
		t.Fatalf("published message = %+v", msg)
	}
}

func TestRecordUploadAppendOnly(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(memory.New(), nil)

	first, err := svc.RecordUpload(ctx, "u1", dataset([]string{"Cr", "100"}))
	if err != nil {
		t.Fatalf("RecordUpload() error = %v", err)
	}
	if _, err := svc.RecordUpload(ctx, "u1", dataset([]string{"Db", "30"})); err != nil {
		t.Fatalf("RecordUpload() error = %v", err)
	}

	entries, err := svc.History(ctx, "u1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("History() len = %d, want 2", len(entries))
	}
	if entries[0].ID != first.ID || entries[0].TotalCredit != 100 {
		t.Fatalf("first entry changed: %+v", entries[0])
	}

	latest, err := svc.Latest(ctx, "u1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.ID == first.ID {
		t.Fatal("Latest() returned the first entry")
	}
}

func TestRecordUploadAggregationFailureLeavesHistoryUntouched(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewHistoryService(memory.New(), pub)

	_, err := svc.RecordUpload(ctx, "u1", core.Dataset{Columns: []string{"DrCr", "balance"}})
	var se *core.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("RecordUpload() error = %v, want SchemaError", err)
	}
	if !errors.Is(err, core.ErrEmptyDataset) {
		t.Fatalf("RecordUpload() error = %v, want ErrEmptyDataset", err)
	}

	entries, err := svc.History(ctx, "u1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("History() = %+v, want empty after failed aggregation", entries)
	}
	if len(pub.messages) != 0 {
		t.Fatalf("published %d messages for a failed upload", len(pub.messages))
	}
}

func TestRecordUploadPublishFailureDoesNotFailUpload(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewHistoryService(memory.New(), pub)

	if _, err := svc.RecordUpload(ctx, "u1", dataset([]string{"Cr", "10"})); err != nil {
		t.Fatalf("RecordUpload() error = %v, want success despite publish failure", err)
	}

	entries, err := svc.History(ctx, "u1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("History() len = %d, want 1", len(entries))
	}
}

func TestRecommendation(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(memory.New(), nil)

	rec, err := svc.Recommendation(ctx, "u1")
	if err != nil {
		t.Fatalf("Recommendation() error = %v", err)
	}
	if rec.Status != core.StatusNoData {
		t.Fatalf("Recommendation() status = %q, want no data before any upload", rec.Status)
	}

	// Debit 60 of balance 100 crosses the half-of-balance line.
	if _, err := svc.RecordUpload(ctx, "u1", dataset(
		[]string{"Db", "60"},
		[]string{"Cr", "100"},
	)); err != nil {
		t.Fatalf("RecordUpload() error = %v", err)
	}
	rec, err = svc.Recommendation(ctx, "u1")
	if err != nil {
		t.Fatalf("Recommendation() error = %v", err)
	}
	if rec.Status != core.StatusReduceSpending {
		t.Fatalf("Recommendation() status = %q, want reduce spending", rec.Status)
	}

	// The newest upload drives the tip: debit 40 of balance 100.
	if _, err := svc.RecordUpload(ctx, "u1", dataset(
		[]string{"Db", "40"},
		[]string{"Cr", "100"},
	)); err != nil {
		t.Fatalf("RecordUpload() error = %v", err)
	}
	rec, err = svc.Recommendation(ctx, "u1")
	if err != nil {
		t.Fatalf("Recommendation() error = %v", err)
	}
	if rec.Status != core.StatusUnderControl {
		t.Fatalf("Recommendation() status = %q, want under control", rec.Status)
	}
}
