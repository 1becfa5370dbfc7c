// Package worker consumes recorded history events and feeds the spreadsheet
// mirror.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"findash/internal/amqp"
	"findash/internal/export"
)

// ExportWorker appends one mirror row per recorded history event.
type ExportWorker struct {
	appender export.HistoryAppender
}

func NewExportWorker(appender export.HistoryAppender) *ExportWorker {
	return &ExportWorker{appender: appender}
}

// HandleHistoryRecorded processes a single history event from the queue. An
// error return nacks the delivery so the broker redelivers it; the mirror
// therefore catches up after transient sheet failures.
func (w *ExportWorker) HandleHistoryRecorded(ctx context.Context, msg *amqp.HistoryRecordedMessage) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid history message: %w", err)
	}

	slog.InfoContext(ctx, "Processing history recorded message",
		"user_id", msg.UserID,
		"entry_id", msg.EntryID)

	row := export.Row{
		UserID:       msg.UserID,
		EntryID:      msg.EntryID,
		TotalBalance: msg.TotalBalance,
		TotalCredit:  msg.TotalCredit,
		TotalDebit:   msg.TotalDebit,
		RowCount:     msg.RowCount,
		RecordedAt:   msg.RecordedAt,
	}
	if err := w.appender.AppendHistory(ctx, row); err != nil {
		return fmt.Errorf("append history row: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored history entry",
		"user_id", msg.UserID,
		"entry_id", msg.EntryID,
		"total_balance", msg.TotalBalance)
	return nil
}
