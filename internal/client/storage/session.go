package storage

import (
	"context"
)

//go:generate moq -out session_mock.go . SessionStorage

// Ключи, под которыми сессия лежит в хранилище
const (
	KeyUser  = "user"
	KeyToken = "token"
	KeyRoles = "userRoles"
)

// SessionStorage persists the signed-in session between runs.
// Implementations store three independent keys: KeyUser (JSON), KeyToken (raw string)
// and KeyRoles (JSON array).
type SessionStorage interface {
	// SaveSession writes all three keys in one transaction
	SaveSession(ctx context.Context, s *SessionData) error

	// LoadSession returns ErrSessionNotFound when no token is stored
	LoadSession(ctx context.Context) (*SessionData, error)

	// DeleteSession removes all three keys. Deleting an absent session is not an error.
	DeleteSession(ctx context.Context) error

	Close() error
}

// SessionUser is the identity part of the session
type SessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SessionData is what survives a restart
type SessionData struct {
	User  *SessionUser
	Token string
	Roles []string
}
