package core

import (
	"errors"
	"strings"
)

var (
	ErrEmptyUserID   = errors.New("empty user id")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyEmail    = errors.New("empty email")
	ErrEmptyPassword = errors.New("empty password")
)

// UserProfile is one registered user. Profiles are created at registration
// and never mutated or deleted; the caller-supplied ID is the only unique
// key. The password hash never crosses the wire.
type UserProfile struct {
	ID           string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

func (p UserProfile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmptyEmail
	}
	return nil
}
