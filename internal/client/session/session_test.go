package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/nihongo/internal/client/storage"
	"github.com/iudanet/nihongo/internal/client/storage/boltdb"
	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// fakeAuth подменяет сетевой сервис авторизации
type fakeAuth struct {
	loginResp    *pkgapi.AuthResponse
	loginErr     error
	registerResp *pkgapi.MessageResponse
	registerErr  error
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*pkgapi.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(ctx context.Context, username, email, password string) (*pkgapi.MessageResponse, error) {
	return f.registerResp, f.registerErr
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "hanako@example.com",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newBoltStorage(t *testing.T) *boltdb.Storage {
	t.Helper()
	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSession_LoginPersistsAndLogoutClears(t *testing.T) {
	ctx := context.Background()
	store := newBoltStorage(t)
	auth := &fakeAuth{loginResp: &pkgapi.AuthResponse{
		Token:    "tok-1",
		ID:       "7",
		Username: "hanako",
		Email:    "hanako@example.com",
		Roles:    []string{pkgapi.RoleStudent, pkgapi.RoleAdmin},
	}}
	s := New(store, auth, nil)

	assert.False(t, s.IsAuthenticated())

	user, err := s.Login(ctx, "hanako@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "7", Username: "hanako", Email: "hanako@example.com"}, user)

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "7", s.UserID())
	assert.True(t, s.IsAdmin())
	assert.True(t, s.IsStudent())
	assert.False(t, s.IsTeacher())

	stored, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored.Token)
	assert.Equal(t, []string{"STUDENT", "ADMIN"}, stored.Roles)

	var hooked int
	s.OnLogout(func() { hooked++ })

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Roles())
	assert.Equal(t, 1, hooked)

	_, err = store.LoadSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSession_LoginFailureLeavesCleanSlate(t *testing.T) {
	ctx := context.Background()
	store := newBoltStorage(t)

	// Сначала успешно входим, затем неудачный повторный вход
	auth := &fakeAuth{loginResp: &pkgapi.AuthResponse{Token: "old", ID: "1", Roles: []string{"STUDENT"}}}
	s := New(store, auth, nil)
	_, err := s.Login(ctx, "a@example.com", "x")
	require.NoError(t, err)

	wantErr := errors.New("bad credentials")
	auth.loginResp, auth.loginErr = nil, wantErr

	_, err = s.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, wantErr)

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Roles())

	_, err = store.LoadSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSession_LoginSaveFailure(t *testing.T) {
	ctx := context.Background()
	mock := &storage.SessionStorageMock{
		SaveSessionFunc:   func(ctx context.Context, s *storage.SessionData) error { return errors.New("disk full") },
		DeleteSessionFunc: func(ctx context.Context) error { return nil },
	}
	s := New(mock, &fakeAuth{loginResp: &pkgapi.AuthResponse{Token: "t", ID: "1"}}, nil)

	_, err := s.Login(ctx, "a@example.com", "x")
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Len(t, mock.DeleteSessionCalls(), 1)
}

func TestSession_Register_DoesNotLogIn(t *testing.T) {
	mock := &storage.SessionStorageMock{}
	s := New(mock, &fakeAuth{registerResp: &pkgapi.MessageResponse{Message: "User registered successfully!"}}, nil)

	resp, err := s.Register(context.Background(), "taro", "taro@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully!", resp.Message)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, mock.SaveSessionCalls())
}

func TestSession_Register_Error(t *testing.T) {
	s := New(&storage.SessionStorageMock{}, &fakeAuth{registerErr: errors.New("taken")}, nil)

	_, err := s.Register(context.Background(), "taro", "taro@example.com", "pw")
	assert.EqualError(t, err, "taken")
}

func TestSession_Restore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		token      string
		wantAuthed bool
	}{
		{name: "opaque token is kept", token: "opaque-token", wantAuthed: true},
		{name: "valid jwt is kept", token: signedToken(t, time.Now().Add(time.Hour)), wantAuthed: true},
		{name: "expired jwt is discarded", token: signedToken(t, time.Now().Add(-time.Hour)), wantAuthed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newBoltStorage(t)
			require.NoError(t, store.SaveSession(ctx, &storage.SessionData{
				User:  &storage.SessionUser{ID: "3", Username: "ken"},
				Token: tt.token,
				Roles: []string{"TEACHER"},
			}))

			s := New(store, nil, nil)
			require.NoError(t, s.Restore(ctx))

			assert.Equal(t, tt.wantAuthed, s.IsAuthenticated())
			if tt.wantAuthed {
				assert.Equal(t, "3", s.UserID())
				assert.True(t, s.IsTeacher())
				return
			}
			_, err := store.LoadSession(ctx)
			assert.ErrorIs(t, err, storage.ErrSessionNotFound)
		})
	}
}

func TestSession_Restore_Empty(t *testing.T) {
	s := New(newBoltStorage(t), nil, nil)
	require.NoError(t, s.Restore(context.Background()))
	assert.False(t, s.IsAuthenticated())
}

func TestSession_Restore_StorageError(t *testing.T) {
	mock := &storage.SessionStorageMock{
		LoadSessionFunc: func(ctx context.Context) (*storage.SessionData, error) {
			return nil, errors.New("corrupted")
		},
	}
	s := New(mock, nil, nil)
	err := s.Restore(context.Background())
	assert.ErrorContains(t, err, "corrupted")
	assert.False(t, s.IsAuthenticated())
}

func TestSession_LogoutStorageErrorStillClearsMemory(t *testing.T) {
	ctx := context.Background()
	mock := &storage.SessionStorageMock{
		SaveSessionFunc:   func(ctx context.Context, s *storage.SessionData) error { return nil },
		DeleteSessionFunc: func(ctx context.Context) error { return errors.New("locked") },
	}
	s := New(mock, &fakeAuth{loginResp: &pkgapi.AuthResponse{Token: "t", ID: "1"}}, nil)
	_, err := s.Login(ctx, "a@example.com", "x")
	require.NoError(t, err)

	var hooked bool
	s.OnLogout(func() { hooked = true })

	err = s.Logout(ctx)
	assert.ErrorContains(t, err, "locked")
	assert.False(t, s.IsAuthenticated())
	assert.True(t, hooked)
}

func TestSession_ExpiresAt(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	mock := &storage.SessionStorageMock{
		SaveSessionFunc: func(ctx context.Context, s *storage.SessionData) error { return nil },
	}
	s := New(mock, &fakeAuth{loginResp: &pkgapi.AuthResponse{Token: signedToken(t, exp), ID: "1"}}, nil)

	_, ok := s.ExpiresAt()
	assert.False(t, ok)

	_, err := s.Login(ctx, "a@example.com", "x")
	require.NoError(t, err)

	got, ok := s.ExpiresAt()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
}

func TestSession_ConcurrentReads(t *testing.T) {
	mock := &storage.SessionStorageMock{
		SaveSessionFunc:   func(ctx context.Context, s *storage.SessionData) error { return nil },
		DeleteSessionFunc: func(ctx context.Context) error { return nil },
	}
	s := New(mock, &fakeAuth{loginResp: &pkgapi.AuthResponse{Token: "t", ID: "1", Roles: []string{"ADMIN"}}}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.IsAdmin()
			_ = s.User()
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Login(context.Background(), "a@example.com", "x")
			_ = s.Logout(context.Background())
		}()
	}
	wg.Wait()
	assert.False(t, s.IsAuthenticated())
}
