package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"findash/internal/core"
)

// HistoryRecordedMessage announces that an upload was aggregated and stored.
// It carries the entry summary only; raw transaction rows never leave the
// store.
type HistoryRecordedMessage struct {
	UserID       string    `json:"user_id"`
	EntryID      string    `json:"entry_id"`
	TotalBalance float64   `json:"total_balance"`
	TotalCredit  float64   `json:"total_credit"`
	TotalDebit   float64   `json:"total_debit"`
	RowCount     int       `json:"row_count"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// NewHistoryRecordedMessage builds the event for a stored entry.
func NewHistoryRecordedMessage(userID string, e core.HistoryEntry) *HistoryRecordedMessage {
	return &HistoryRecordedMessage{
		UserID:       userID,
		EntryID:      e.ID,
		TotalBalance: e.TotalBalance,
		TotalCredit:  e.TotalCredit,
		TotalDebit:   e.TotalDebit,
		RowCount:     len(e.Rows),
		RecordedAt:   e.CreatedAt,
	}
}

// Validate rejects messages that cannot identify an entry.
func (m *HistoryRecordedMessage) Validate() error {
	if m.UserID == "" {
		return errors.New("history message missing user_id")
	}
	if m.EntryID == "" {
		return errors.New("history message missing entry_id")
	}
	return nil
}

func (m *HistoryRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func HistoryRecordedMessageFromJSON(data []byte) (*HistoryRecordedMessage, error) {
	var msg HistoryRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
