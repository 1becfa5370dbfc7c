package backend

import (
	"context"

	"findash/internal/store"
)

// Backend bundles the two persistence ports every backend implements.
type Backend interface {
	store.UserStore
	store.HistoryStore
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// BackendResult contains the opened stores and an optional cleanup function.
type BackendResult struct {
	Users   store.UserStore
	History store.HistoryStore
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// jsonfile specific
	JSONDataDir string

	// SQLite specific
	SQLiteDBPath string
}

// BackendType selects the persistence backend.
type BackendType string

const (
	JSONFileBackend BackendType = "jsonfile"
	SQLiteBackend   BackendType = "sqlite"
	MemoryBackend   BackendType = "memory"
)

// String implements fmt.Stringer.
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	switch bt {
	case JSONFileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
