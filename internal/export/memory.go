package export

import (
	"context"
	"sync"
)

// Memory records appended rows in process memory, for tests and dry runs.
type Memory struct {
	mu   sync.Mutex
	rows []Row

	// Err, when set, is returned by every append.
	Err error
}

var _ HistoryAppender = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) AppendHistory(_ context.Context, r Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.rows = append(m.rows, r)
	return nil
}

// Rows returns a snapshot of everything appended so far.
func (m *Memory) Rows() []Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Row, len(m.rows))
	copy(out, m.rows)
	return out
}
