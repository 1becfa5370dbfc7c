package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"findash/internal/amqp"
	"findash/internal/core"
	"findash/internal/store"
)

// Publisher is the event side-channel for recorded uploads. The service
// works without one.
type Publisher interface {
	PublishHistoryRecorded(ctx context.Context, msg *amqp.HistoryRecordedMessage) error
}

// HistoryService aggregates uploads and maintains the append-only per-user
// history.
type HistoryService struct {
	history   store.HistoryStore
	publisher Publisher
}

func NewHistoryService(history store.HistoryStore, publisher Publisher) *HistoryService {
	return &HistoryService{
		history:   history,
		publisher: publisher,
	}
}

// RecordUpload aggregates the dataset and appends the resulting entry to the
// user's history. An aggregation failure propagates and leaves the history
// untouched. The recorded event is published after the store write; a broker
// failure never fails the upload.
func (s *HistoryService) RecordUpload(ctx context.Context, userID string, ds core.Dataset) (core.HistoryEntry, error) {
	summary, err := core.Aggregate(ds)
	if err != nil {
		return core.HistoryEntry{}, err
	}

	entry := core.HistoryEntry{
		ID:        uuid.NewString(),
		Rows:      ds.Records,
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.history.AppendEntry(ctx, userID, entry); err != nil {
		return core.HistoryEntry{}, fmt.Errorf("append history entry: %w", err)
	}

	slog.InfoContext(ctx, "History entry recorded",
		"user_id", userID,
		"entry_id", entry.ID,
		"rows", len(entry.Rows),
		"total_balance", entry.TotalBalance)

	if err := s.publishRecorded(ctx, userID, entry); err != nil {
		slog.ErrorContext(ctx, "Failed to publish history recorded message",
			"user_id", userID,
			"entry_id", entry.ID,
			"error", err)
		// The entry is stored locally; the mirror catches up later.
	}

	return entry, nil
}

func (s *HistoryService) publishRecorded(ctx context.Context, userID string, entry core.HistoryEntry) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Publisher not available, skipping history recorded message")
		return nil
	}
	return s.publisher.PublishHistoryRecorded(ctx, amqp.NewHistoryRecordedMessage(userID, entry))
}

// History returns the user's entries in append order.
func (s *HistoryService) History(ctx context.Context, userID string) ([]core.HistoryEntry, error) {
	return s.history.ListEntries(ctx, userID)
}

// Latest returns the most recent entry, or store.ErrNoHistory.
func (s *HistoryService) Latest(ctx context.Context, userID string) (core.HistoryEntry, error) {
	return s.history.LatestEntry(ctx, userID)
}

// Recommendation evaluates the spending rule against the user's latest
// entry. A user with no uploads gets the no-data result, not an error.
func (s *HistoryService) Recommendation(ctx context.Context, userID string) (core.Recommendation, error) {
	latest, err := s.history.LatestEntry(ctx, userID)
	if errors.Is(err, store.ErrNoHistory) {
		return core.Recommend(nil), nil
	}
	if err != nil {
		return core.Recommendation{}, fmt.Errorf("load latest entry: %w", err)
	}
	return core.Recommend(&latest), nil
}
