package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/nihongo/internal/client/storage"
)

const upsertQuery = `
	INSERT INTO session (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

// SaveSession writes user, token and userRoles in one transaction
func (s *Storage) SaveSession(ctx context.Context, sess *storage.SessionData) error {
	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	roles := sess.Roles
	if roles == nil {
		roles = []string{}
	}
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("failed to marshal roles: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	values := map[string]string{
		storage.KeyUser:  string(user),
		storage.KeyToken: sess.Token,
		storage.KeyRoles: string(rolesJSON),
	}
	for key, value := range values {
		if _, err := tx.ExecContext(ctx, upsertQuery, key, value); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// LoadSession returns storage.ErrSessionNotFound when no token row exists
func (s *Storage) LoadSession(ctx context.Context) (*storage.SessionData, error) {
	token, err := s.get(ctx, storage.KeyToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, storage.ErrSessionNotFound
	}
	sess := &storage.SessionData{Token: token}

	user, err := s.get(ctx, storage.KeyUser)
	if err != nil {
		return nil, err
	}
	if user != "" {
		if err := json.Unmarshal([]byte(user), &sess.User); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user: %w", err)
		}
	}

	roles, err := s.get(ctx, storage.KeyRoles)
	if err != nil {
		return nil, err
	}
	if roles != "" {
		if err := json.Unmarshal([]byte(roles), &sess.Roles); err != nil {
			return nil, fmt.Errorf("failed to unmarshal roles: %w", err)
		}
	}

	return sess, nil
}

// DeleteSession removes the session rows; a missing session is not an error
func (s *Storage) DeleteSession(ctx context.Context) error {
	query := `DELETE FROM session WHERE key IN (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, storage.KeyUser, storage.KeyToken, storage.KeyRoles); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// get возвращает пустую строку, если ключа нет
func (s *Storage) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}
