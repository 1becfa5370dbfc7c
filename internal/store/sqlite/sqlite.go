// Package sqlite persists profiles and histories in an embedded SQLite
// database, an alternative to the JSON documents for installs that want a
// real store underneath the same ports.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"findash/internal/core"
	"findash/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and applies pending
// migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) PutUser(ctx context.Context, p core.UserProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, p.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check user id: %w", err)
	}
	if exists > 0 {
		return store.ErrUserExists
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.PasswordHash)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return tx.Commit()
}

func (s *Store) GetUser(ctx context.Context, id string) (core.UserProfile, error) {
	var p core.UserProfile
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash FROM users WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.UserProfile{}, store.ErrUserNotFound
	}
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("select user: %w", err)
	}
	return p, nil
}

func (s *Store) AppendEntry(ctx context.Context, userID string, e core.HistoryEntry) error {
	rows, err := json.Marshal(e.Rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history_entries (id, user_id, rows_json, total_balance, total_credit, total_debit, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, userID, string(rows), e.TotalBalance, e.TotalCredit, e.TotalDebit,
		e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, userID string) ([]core.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, rows_json, total_balance, total_credit, total_debit, created_at
		 FROM history_entries WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	entries := []core.HistoryEntry{}
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

func (s *Store) LatestEntry(ctx context.Context, userID string) (core.HistoryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, rows_json, total_balance, total_credit, total_debit, created_at
		 FROM history_entries WHERE user_id = ? ORDER BY seq DESC LIMIT 1`, userID)

	e, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.HistoryEntry{}, store.ErrNoHistory
	}
	if err != nil {
		return core.HistoryEntry{}, err
	}
	return e, nil
}

// scanEntry reads one history row from either *sql.Row or *sql.Rows.
func scanEntry(scan func(...any) error) (core.HistoryEntry, error) {
	var (
		e         core.HistoryEntry
		rowsJSON  string
		createdAt string
	)
	if err := scan(&e.ID, &rowsJSON, &e.TotalBalance, &e.TotalCredit, &e.TotalDebit, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.HistoryEntry{}, err
		}
		return core.HistoryEntry{}, fmt.Errorf("scan history entry: %w", err)
	}
	if err := json.Unmarshal([]byte(rowsJSON), &e.Rows); err != nil {
		return core.HistoryEntry{}, fmt.Errorf("unmarshal rows: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return core.HistoryEntry{}, fmt.Errorf("parse created_at: %w", err)
	}
	e.CreatedAt = ts
	return e, nil
}
