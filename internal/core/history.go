package core

import "time"

// HistoryEntry is one immutable snapshot of an uploaded dataset together
// with its computed aggregates. Entries accumulate append-only per user;
// nothing edits or removes them.
type HistoryEntry struct {
	ID   string   `json:"id"`
	Rows []Record `json:"transactions"`
	Summary
	CreatedAt time.Time `json:"timestamp"`
}
