// Package store defines the persistence ports for user profiles and upload
// histories. Both documents are keyed by user id; callers depend on get/put
// semantics only, and every implementation serializes its writes.
package store

import (
	"context"
	"errors"

	"findash/internal/core"
)

var (
	ErrUserExists   = errors.New("user id already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrNoHistory    = errors.New("no history for user")
)

// Ports for persistence backends.
type (
	UserStore interface {
		// PutUser stores a new profile, failing with ErrUserExists when the
		// id is taken. Profiles are never overwritten.
		PutUser(ctx context.Context, p core.UserProfile) error
		// GetUser returns the profile for id, or ErrUserNotFound.
		GetUser(ctx context.Context, id string) (core.UserProfile, error)
	}

	HistoryStore interface {
		// AppendEntry adds one entry to the end of the user's history.
		AppendEntry(ctx context.Context, userID string, e core.HistoryEntry) error
		// ListEntries returns the user's history in append order. A user with
		// no history gets an empty slice, not an error.
		ListEntries(ctx context.Context, userID string) ([]core.HistoryEntry, error)
		// LatestEntry returns the most recent entry, or ErrNoHistory.
		LatestEntry(ctx context.Context, userID string) (core.HistoryEntry, error)
	}
)
