package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/nihongo/internal/client/storage"
)

func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew_RunsMigrations(t *testing.T) {
	s := setupTestDB(t)

	var name string
	err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='session'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "session", name)
}

func TestSession_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	_, err := s.LoadSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	sess := &storage.SessionData{
		User:  &storage.SessionUser{ID: "42", Username: "taro", Email: "taro@example.com"},
		Token: "tok",
		Roles: []string{"TEACHER"},
	}
	require.NoError(t, s.SaveSession(ctx, sess))

	got, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	// Повторное сохранение перезаписывает значения
	sess.Token = "tok2"
	sess.Roles = []string{"ADMIN"}
	require.NoError(t, s.SaveSession(ctx, sess))
	got, err = s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok2", got.Token)
	assert.Equal(t, []string{"ADMIN"}, got.Roles)

	require.NoError(t, s.DeleteSession(ctx))
	_, err = s.LoadSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM session`).Scan(&count))
	assert.Zero(t, count)

	assert.NoError(t, s.DeleteSession(ctx))
}

func TestSession_FileReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.sqlite")

	s, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveSession(ctx, &storage.SessionData{Token: "persisted"}))
	require.NoError(t, s.Close())

	// Миграции повторно применяются без ошибок
	s, err = New(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Token)
	assert.Nil(t, got.User)
}
