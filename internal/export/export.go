// Package export mirrors recorded history summaries to an external
// spreadsheet. The local store stays the source of truth; the mirror is
// best-effort and catches up through queue redelivery.
package export

import (
	"context"
	"time"
)

// Row is one mirrored history summary.
type Row struct {
	UserID       string
	EntryID      string
	TotalBalance float64
	TotalCredit  float64
	TotalDebit   float64
	RowCount     int
	RecordedAt   time.Time
}

// HistoryAppender is the outbound port for the mirror sink.
type HistoryAppender interface {
	AppendHistory(ctx context.Context, r Row) error
}
