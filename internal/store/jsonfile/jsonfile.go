// Package jsonfile persists both documents as JSON files that are loaded at
// open and rewritten wholesale on every mutation, matching the on-disk layout
// the dashboard has always used. An exclusive lock serializes writers; the
// rewrite goes through a temp file and rename so a crash never truncates a
// document.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"findash/internal/core"
	"findash/internal/store"
)

const (
	usersFile   = "user_data.json"
	historyFile = "transaction_logs.json"
)

// storedProfile is the persisted profile shape: the user id is the document
// key, the hash lives under "password".
type storedProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Store struct {
	mu          sync.RWMutex
	usersPath   string
	historyPath string
	users       map[string]storedProfile
	history     map[string][]core.HistoryEntry
}

// Open loads (or creates) the two documents under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		usersPath:   filepath.Join(dir, usersFile),
		historyPath: filepath.Join(dir, historyFile),
		users:       map[string]storedProfile{},
		history:     map[string][]core.HistoryEntry{},
	}
	if err := loadDocument(s.usersPath, &s.users); err != nil {
		return nil, err
	}
	if err := loadDocument(s.historyPath, &s.history); err != nil {
		return nil, err
	}
	return s, nil
}

// loadDocument reads path into out, creating an empty document when the file
// does not exist yet.
func loadDocument(path string, out any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return writeDocument(path, []byte("{}"))
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeDocument replaces path atomically.
func writeDocument(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *Store) persistUsersLocked() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	return writeDocument(s.usersPath, data)
}

func (s *Store) persistHistoryLocked() error {
	data, err := json.MarshalIndent(s.history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return writeDocument(s.historyPath, data)
}

// PutUser stores a new profile and rewrites the whole users document.
func (s *Store) PutUser(_ context.Context, p core.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.ID]; ok {
		return store.ErrUserExists
	}
	s.users[p.ID] = storedProfile{Name: p.Name, Email: p.Email, Password: p.PasswordHash}
	if err := s.persistUsersLocked(); err != nil {
		delete(s.users, p.ID)
		return err
	}
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (core.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, ok := s.users[id]
	if !ok {
		return core.UserProfile{}, store.ErrUserNotFound
	}
	return core.UserProfile{ID: id, Name: sp.Name, Email: sp.Email, PasswordHash: sp.Password}, nil
}

// AppendEntry adds one entry to the user's history and rewrites the whole
// history document.
func (s *Store) AppendEntry(_ context.Context, userID string, e core.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[userID] = append(s.history[userID], e)
	if err := s.persistHistoryLocked(); err != nil {
		entries := s.history[userID]
		if len(entries) <= 1 {
			delete(s.history, userID)
		} else {
			s.history[userID] = entries[:len(entries)-1]
		}
		return err
	}
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
