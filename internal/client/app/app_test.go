package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/nihongo/internal/apitest"
	"github.com/iudanet/nihongo/internal/client/api"
	"github.com/iudanet/nihongo/internal/client/router"
	"github.com/iudanet/nihongo/internal/client/storage"
	"github.com/iudanet/nihongo/internal/config"
	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

func newTestApp(t *testing.T, srv *apitest.Server, kind string) *App {
	t.Helper()
	cfg := &config.Config{
		ServerURL: srv.APIURL(),
		DBPath:    filepath.Join(t.TempDir(), "client.db"),
		Store:     kind,
	}
	a, err := New(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_UnauthorizedResetsEverything(t *testing.T) {
	for _, kind := range []string{config.StoreBolt, config.StoreSQLite} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			srv := apitest.New(t)
			srv.AddAccount("hanako", "hanako@example.com", "secret", pkgapi.RoleStudent)
			srv.AddCourse(pkgapi.Course{Title: "Kana"})
			a := newTestApp(t, srv, kind)

			_, err := a.Session.Login(ctx, "hanako@example.com", "secret")
			require.NoError(t, err)
			_, err = a.Stores.Courses.FetchAll(ctx)
			require.NoError(t, err)
			require.Len(t, a.Stores.Courses.State().Items, 1)

			srv.RevokeTokens()
			_, err = a.Stores.Courses.FetchAll(ctx)
			require.ErrorIs(t, err, api.ErrUnauthorized)

			assert.False(t, a.Session.IsAuthenticated())
			assert.Empty(t, a.Session.Token())
			assert.Nil(t, a.Session.User())
			assert.Empty(t, a.Session.Roles())

			_, err = a.Storage.LoadSession(ctx)
			assert.ErrorIs(t, err, storage.ErrSessionNotFound)

			assert.Empty(t, a.Stores.Courses.State().Items)
		})
	}
}

func TestApp_RestoresSessionAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	srv.AddAccount("hanako", "hanako@example.com", "secret", pkgapi.RoleStudent)

	cfg := &config.Config{
		ServerURL: srv.APIURL(),
		DBPath:    filepath.Join(t.TempDir(), "client.db"),
		Store:     config.StoreBolt,
	}
	first, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	_, err = first.Session.Login(ctx, "hanako@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	assert.True(t, second.Session.IsAuthenticated())
	assert.Equal(t, "hanako", second.Session.User().Username)

	// восстановленный токен принимается сервером
	me, err := second.Stores.Users.FetchCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hanako@example.com", me.Email)
}

func TestApp_RouterFollowsSession(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	srv.AddAccount("hanako", "hanako@example.com", "secret", pkgapi.RoleStudent)
	a := newTestApp(t, srv, config.StoreBolt)

	assert.Equal(t, router.Login, a.Router.Navigate("/dashboard").Route.Name)

	_, err := a.Session.Login(ctx, "hanako@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, router.Dashboard, a.Router.Navigate("/dashboard").Route.Name)
	assert.Equal(t, router.Dashboard, a.Router.Navigate("/admin/users").Route.Name)

	require.NoError(t, a.Session.Logout(ctx))
	assert.Equal(t, router.Login, a.Router.Navigate("/profile").Route.Name)
}

func TestApp_LoginFailureLeavesCleanSlate(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	srv.AddAccount("hanako", "hanako@example.com", "secret", pkgapi.RoleStudent)
	a := newTestApp(t, srv, config.StoreBolt)

	_, err := a.Session.Login(ctx, "hanako@example.com", "secret")
	require.NoError(t, err)

	_, err = a.Session.Login(ctx, "hanako@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, a.Session.IsAuthenticated())
	_, err = a.Storage.LoadSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestOpenStorage_Unknown(t *testing.T) {
	_, err := OpenStorage(context.Background(), "redis", "x")
	assert.Error(t, err)
}
