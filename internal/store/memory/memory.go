// Package memory provides map-backed stores for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"findash/internal/core"
	"findash/internal/store"
)

type Store struct {
	mu      sync.RWMutex
	users   map[string]core.UserProfile
	history map[string][]core.HistoryEntry
}

func New() *Store {
	return &Store{
		users:   map[string]core.UserProfile{},
		history: map[string][]core.HistoryEntry{},
	}
}

func (s *Store) PutUser(_ context.Context, p core.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.ID]; ok {
		return store.ErrUserExists
	}
	s.users[p.ID] = p
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (core.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.users[id]
	if !ok {
		return core.UserProfile{}, store.ErrUserNotFound
	}
	return p, nil
}

func (s *Store) AppendEntry(_ context.Context, userID string, e core.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[userID] = append(s.history[userID], e)
	return nil
}

func (s *Store) ListEntries(_ context.Context, userID string) ([]core.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]core.HistoryEntry, len(s.history[userID]))
	copy(entries, s.history[userID])
	return entries, nil
}

func (s *Store) LatestEntry(_ context.Context, userID string) (core.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[userID]
	if len(entries) == 0 {
		return core.HistoryEntry{}, store.ErrNoHistory
	}
	return entries[len(entries)-1], nil
}
