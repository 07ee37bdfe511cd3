// Package session holds the signed-in identity of the client.
// A Session is created once by the composition root and passed to whoever needs it;
// it is the single writer of the token, user and roles and mirrors them to durable storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/nihongo/internal/client/storage"
	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthAPI is the part of the auth service the session talks to.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*pkgapi.AuthResponse, error)
	Register(ctx context.Context, username, email, password string) (*pkgapi.MessageResponse, error)
}

// User is the identity part of the session.
type User = storage.SessionUser

// Session хранит токен, пользователя и роли. Safe for concurrent use.
type Session struct {
	storage storage.SessionStorage
	auth    AuthAPI
	logger  *slog.Logger

	user     *User
	onLogout []func()
	roles    []string
	token    string

	mu sync.RWMutex
}

// New создает сессию; состояние пустое до Restore или Login
func New(store storage.SessionStorage, auth AuthAPI, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		storage: store,
		auth:    auth,
		logger:  logger.With("component", "session"),
	}
}

// OnLogout registers fn to run after every logout, explicit or triggered by a 401.
// Hooks run without the session lock held.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Restore rehydrates the session from durable storage.
// A JWT whose exp claim is already in the past is discarded instead of trusted.
func (s *Session) Restore(ctx context.Context) error {
	data, err := s.storage.LoadSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if exp, ok := tokenExpiry(data.Token); ok && !exp.After(time.Now()) {
		s.logger.Info("stored token expired, discarding", "expired_at", exp)
		return s.Logout(ctx)
	}

	s.mu.Lock()
	s.token = data.Token
	s.user = data.User
	s.roles = slices.Clone(data.Roles)
	s.mu.Unlock()

	s.logger.Debug("session restored", "user_id", s.UserID())
	return nil
}

// Login authenticates and persists the session.
// Any failure leaves the session fully logged out.
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		// чистый лист: в памяти и в хранилище ничего не остается
		_ = s.Logout(ctx)
		return nil, err
	}

	user := &User{ID: resp.ID, Username: resp.Username, Email: resp.Email}
	roles := slices.Clone(resp.Roles)
	if roles == nil {
		roles = []string{}
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = user
	s.roles = roles
	s.mu.Unlock()

	err = s.storage.SaveSession(ctx, &storage.SessionData{User: user, Token: resp.Token, Roles: roles})
	if err != nil {
		s.logger.Error("failed to persist session", "error", err)
		_ = s.Logout(ctx)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("logged in", "user_id", user.ID, "roles", roles)
	return user, nil
}

// Register creates an account. It does not sign the user in.
func (s *Session) Register(ctx context.Context, username, email, password string) (*pkgapi.MessageResponse, error) {
	resp, err := s.auth.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info("registered", "username", username)
	return resp, nil
}

// Logout clears the in-memory session first, then durable storage, then runs the
// OnLogout hooks. A storage failure is logged and returned; memory stays cleared.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	s.user = nil
	s.roles = nil
	hooks := slices.Clone(s.onLogout)
	s.mu.Unlock()

	err := s.storage.DeleteSession(ctx)
	if err != nil {
		s.logger.Error("failed to clear stored session", "error", err)
		err = fmt.Errorf("failed to clear session: %w", err)
	}

	for _, hook := range hooks {
		hook()
	}

	if wasAuthenticated {
		s.logger.Info("logged out")
	}
	return err
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated is true exactly when a token is held.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// User returns a copy of the current user or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *Session) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.roles)
}

func (s *Session) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.roles, role)
}

func (s *Session) IsAdmin() bool   { return s.HasRole(pkgapi.RoleAdmin) }
func (s *Session) IsTeacher() bool { return s.HasRole(pkgapi.RoleTeacher) }
func (s *Session) IsStudent() bool { return s.HasRole(pkgapi.RoleStudent) }

// ExpiresAt returns the exp claim of the current token when it is a JWT carrying one.
func (s *Session) ExpiresAt() (time.Time, bool) {
	return tokenExpiry(s.Token())
}

// tokenExpiry читает exp без проверки подписи: ключа у клиента нет
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
