// Package backend opens the configured persistence backend and hands the
// stores to the binaries, so callers depend on the ports alone.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"findash/internal/store/jsonfile"
	"findash/internal/store/memory"
	"findash/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case JSONFileBackend:
		return f.createJSONFileBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createJSONFileBackend(config Config) (*BackendResult, error) {
	s, err := jsonfile.Open(config.JSONDataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open jsonfile store: %w", err)
	}

	f.logger.Info("Initialized jsonfile backend", "data_dir", config.JSONDataDir)

	return &BackendResult{
		Users:   s,
		History: s,
		Cleanup: nil, // documents are rewritten per mutation, nothing held open
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	s, err := sqlite.Open(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	f.logger.Info("Initialized sqlite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Users:   s,
		History: s,
		Cleanup: s.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	s := memory.New()

	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Users:   s,
		History: s,
		Cleanup: nil,
	}, nil
}
