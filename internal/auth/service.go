// Package auth implements registration and login on top of the user store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"findash/internal/core"
	"findash/internal/store"
)

// ErrInvalidCredentials covers both an unknown user id and a failed password
// check; callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid user id or password")

// Service registers and verifies users. Passwords are stored as bcrypt
// hashes, so every hash carries its own salt and verification stays
// constant-time.
type Service struct {
	users store.UserStore
	cost  int
}

// NewService wires the user store. cost tunes bcrypt work; zero means
// bcrypt.DefaultCost (tests pass bcrypt.MinCost).
func NewService(users store.UserStore, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{users: users, cost: cost}
}

// Register hashes password and stores the profile keyed by id. A taken id
// fails with store.ErrUserExists and leaves the stored profile untouched.
func (s *Service) Register(ctx context.Context, id, name, email, password string) (core.UserProfile, error) {
	p := core.UserProfile{
		ID:    strings.TrimSpace(id),
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if err := p.Validate(); err != nil {
		return core.UserProfile{}, err
	}
	if password == "" {
		return core.UserProfile{}, core.ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("hash password: %w", err)
	}
	p.PasswordHash = string(hash)

	if err := s.users.PutUser(ctx, p); err != nil {
		return core.UserProfile{}, err
	}
	return p, nil
}

// Verify checks password against the hash stored for id.
func (s *Service) Verify(ctx context.Context, id, password string) (core.UserProfile, error) {
	p, err := s.users.GetUser(ctx, strings.TrimSpace(id))
	if errors.Is(err, store.ErrUserNotFound) {
		return core.UserProfile{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return core.UserProfile{}, ErrInvalidCredentials
	}
	return p, nil
}

// Profile returns the stored profile for id, or store.ErrUserNotFound. The
// presentation layer supplies an already-authenticated id, so no password
// check happens here.
func (s *Service) Profile(ctx context.Context, id string) (core.UserProfile, error) {
	return s.users.GetUser(ctx, strings.TrimSpace(id))
}
