package store

import (
	"context"
	"log/slog"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// ModerationAPI is implemented by service.ModerationService.
type ModerationAPI interface {
	Create(ctx context.Context, log pkgapi.ModerationLog) (*pkgapi.ModerationLog, error)
	Get(ctx context.Context, id string) (*pkgapi.ModerationLog, error)
	List(ctx context.Context) ([]pkgapi.ModerationLog, error)
	Update(ctx context.Context, id string, log pkgapi.ModerationLog) (*pkgapi.ModerationLog, error)
	Delete(ctx context.Context, id string) (*pkgapi.MessageResponse, error)
}

// ModerationStore holds moderation log entries.
type ModerationStore struct {
	api ModerationAPI
	crud[pkgapi.ModerationLog]
}

// NewModerationStore creates the moderation log container.
func NewModerationStore(api ModerationAPI, logger *slog.Logger) *ModerationStore {
	return &ModerationStore{
		api:  api,
		crud: newCrud("moderation", logger, func(m pkgapi.ModerationLog) string { return m.ID }),
	}
}

// FetchAll загружает весь журнал модерации.
func (s *ModerationStore) FetchAll(ctx context.Context) ([]pkgapi.ModerationLog, error) {
	return s.fetchAll(ctx, "fetchAll", "Failed to fetch moderation logs", s.api.List)
}

// FetchByID makes the entry current.
func (s *ModerationStore) FetchByID(ctx context.Context, id string) (*pkgapi.ModerationLog, error) {
	return s.fetchOne(ctx, "fetchById", "Failed to fetch moderation log", func(ctx context.Context) (*pkgapi.ModerationLog, error) {
		return s.api.Get(ctx, id)
	})
}

// Create appends the server's copy of the new entry.
func (s *ModerationStore) Create(ctx context.Context, log pkgapi.ModerationLog) (*pkgapi.ModerationLog, error) {
	return s.create(ctx, "create", "Failed to create moderation log", func(ctx context.Context) (*pkgapi.ModerationLog, error) {
		return s.api.Create(ctx, log)
	})
}

// Update заменяет запись в списке и в current.
func (s *ModerationStore) Update(ctx context.Context, id string, log pkgapi.ModerationLog) (*pkgapi.ModerationLog, error) {
	return s.update(ctx, "update", "Failed to update moderation log", func(ctx context.Context) (*pkgapi.ModerationLog, error) {
		return s.api.Update(ctx, id, log)
	})
}

// Delete removes the entry locally once the server confirms.
func (s *ModerationStore) Delete(ctx context.Context, id string) error {
	return s.remove(ctx, id, "delete", "Failed to delete moderation log", func(ctx context.Context) error {
		_, err := s.api.Delete(ctx, id)
		return err
	})
}

// UserAPI is implemented by service.UserService.
type UserAPI interface {
	Get(ctx context.Context, id string) (*pkgapi.User, error)
	Update(ctx context.Context, id string, req pkgapi.UserProfileUpdateRequest) (*pkgapi.User, error)
	Delete(ctx context.Context, id string) (*pkgapi.MessageResponse, error)
	List(ctx context.Context) ([]pkgapi.User, error)
}

// UserStore holds user profiles. Current is the profile last fetched, usually the
// signed-in user's own.
type UserStore struct {
	api      UserAPI
	identity Identity
	crud[pkgapi.User]
}

// NewUserStore takes the session read-only; the store never changes who is signed in.
func NewUserStore(api UserAPI, identity Identity, logger *slog.Logger) *UserStore {
	return &UserStore{
		api:      api,
		identity: identity,
		crud:     newCrud("users", logger, func(u pkgapi.User) string { return u.ID }),
	}
}

// currentID fails before any request when nobody is signed in
func (s *UserStore) currentID(action, fallback string) (string, error) {
	if s.identity != nil {
		if id := s.identity.UserID(); id != "" {
			return id, nil
		}
	}
	gen, done := s.begin()
	defer done()
	return "", s.fail(gen, action, ErrNotAuthenticated, fallback)
}

// FetchCurrentUser loads the signed-in user's profile into current.
func (s *UserStore) FetchCurrentUser(ctx context.Context) (*pkgapi.User, error) {
	const action, fallback = "fetchCurrentUser", "Failed to fetch user profile"
	id, err := s.currentID(action, fallback)
	if err != nil {
		return nil, err
	}
	return s.fetchOne(ctx, action, fallback, func(ctx context.Context) (*pkgapi.User, error) {
		return s.api.Get(ctx, id)
	})
}

// UpdateCurrentProfile updates the signed-in user's own profile.
func (s *UserStore) UpdateCurrentProfile(ctx context.Context, req pkgapi.UserProfileUpdateRequest) (*pkgapi.User, error) {
	const action, fallback = "updateCurrentProfile", "Failed to update profile"
	id, err := s.currentID(action, fallback)
	if err != nil {
		return nil, err
	}
	return call(ctx, &s.base, action, fallback, func(ctx context.Context) (*pkgapi.User, error) {
		return s.api.Update(ctx, id, req)
	}, func(u *pkgapi.User) {
		if u == nil {
			return
		}
		s.items.update(*u)
		s.current.set(u)
	})
}

// FetchAll loads all users (admin only on the server).
func (s *UserStore) FetchAll(ctx context.Context) ([]pkgapi.User, error) {
	return s.fetchAll(ctx, "fetchAll", "Failed to fetch users", s.api.List)
}

// FetchByID делает пользователя текущим.
func (s *UserStore) FetchByID(ctx context.Context, id string) (*pkgapi.User, error) {
	return s.fetchOne(ctx, "fetchById", "Failed to fetch user", func(ctx context.Context) (*pkgapi.User, error) {
		return s.api.Get(ctx, id)
	})
}

// Update stores the server's representation of the profile.
func (s *UserStore) Update(ctx context.Context, id string, req pkgapi.UserProfileUpdateRequest) (*pkgapi.User, error) {
	return s.update(ctx, "update", "Failed to update user", func(ctx context.Context) (*pkgapi.User, error) {
		return s.api.Update(ctx, id, req)
	})
}

// Delete удаляет пользователя из списка после ответа сервера.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	return s.remove(ctx, id, "delete", "Failed to delete user", func(ctx context.Context) error {
		_, err := s.api.Delete(ctx, id)
		return err
	})
}
