package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/nihongo/internal/client/storage"
)

// создаём тестовое BoltDB хранилище во временной директории
func createTestStorage(t *testing.T) *Storage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "session_test.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestNew_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	// Проверяем что файл БД действительно создан
	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	err = store.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketSession) == nil {
			return os.ErrNotExist
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClose_Twice(t *testing.T) {
	store := createTestStorage(t)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err := store.LoadSession(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestStorage_SaveLoadDeleteSession(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// До сохранения сессии нет
	_, err := store.LoadSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	sess := &storage.SessionData{
		User:  &storage.SessionUser{ID: "u1", Username: "hanako", Email: "hanako@example.com"},
		Token: "jwt-token",
		Roles: []string{"STUDENT", "ADMIN"},
	}
	require.NoError(t, store.SaveSession(ctx, sess))

	got, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	// Все три ключа лежат в бакете в ожидаемом виде
	err = store.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		assert.Equal(t, "jwt-token", string(b.Get([]byte(storage.KeyToken))))
		assert.JSONEq(t, `{"id":"u1","username":"hanako","email":"hanako@example.com"}`, string(b.Get([]byte(storage.KeyUser))))
		assert.JSONEq(t, `["STUDENT","ADMIN"]`, string(b.Get([]byte(storage.KeyRoles))))
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteSession(ctx))
	_, err = store.LoadSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// Повторное удаление не ошибка
	assert.NoError(t, store.DeleteSession(ctx))
}

func TestStorage_SaveSession_NilRoles(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	require.NoError(t, store.SaveSession(ctx, &storage.SessionData{Token: "t"}))

	got, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Token)
	assert.Nil(t, got.User)
	assert.Empty(t, got.Roles)
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SaveSession(ctx, &storage.SessionData{Token: "abc", Roles: []string{"STUDENT"}}))
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Token)
	assert.Equal(t, []string{"STUDENT"}, got.Roles)
}
