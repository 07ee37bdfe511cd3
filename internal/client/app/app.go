// Package app wires the client together: durable storage, HTTP client, session,
// resource services, state containers and the router.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/nihongo/internal/client/api"
	"github.com/iudanet/nihongo/internal/client/router"
	"github.com/iudanet/nihongo/internal/client/service"
	"github.com/iudanet/nihongo/internal/client/session"
	"github.com/iudanet/nihongo/internal/client/storage"
	"github.com/iudanet/nihongo/internal/client/storage/boltdb"
	"github.com/iudanet/nihongo/internal/client/storage/sqlite"
	"github.com/iudanet/nihongo/internal/client/store"
	"github.com/iudanet/nihongo/internal/config"
)

// Stores groups the per-entity state containers.
type Stores struct {
	Courses       *store.CourseStore
	Lessons       *store.LessonStore
	Quizzes       *store.QuizStore
	Flashcards    *store.FlashcardStore
	Kanji         *store.KanjiStore
	Vocabulary    *store.VocabularyStore
	Progress      *store.ProgressStore
	Achievements  *store.AchievementStore
	StudySessions *store.StudySessionStore
	Moderation    *store.ModerationStore
	Users         *store.UserStore
}

func newStores(svc *service.Services, identity store.Identity, logger *slog.Logger) *Stores {
	return &Stores{
		Courses:       store.NewCourseStore(svc.Courses, logger),
		Lessons:       store.NewLessonStore(svc.Lessons, logger),
		Quizzes:       store.NewQuizStore(svc.Quizzes, logger),
		Flashcards:    store.NewFlashcardStore(svc.Flashcards, logger),
		Kanji:         store.NewKanjiStore(svc.Kanji, logger),
		Vocabulary:    store.NewVocabularyStore(svc.JapaneseText, logger),
		Progress:      store.NewProgressStore(svc.Progress, logger),
		Achievements:  store.NewAchievementStore(svc.Achievements, logger),
		StudySessions: store.NewStudySessionStore(svc.StudySessions, logger),
		Moderation:    store.NewModerationStore(svc.Moderation, logger),
		Users:         store.NewUserStore(svc.Users, identity, logger),
	}
}

// Reset clears every container. Registered as a logout hook.
func (s *Stores) Reset() {
	s.Courses.Reset()
	s.Lessons.Reset()
	s.Quizzes.Reset()
	s.Flashcards.Reset()
	s.Kanji.Reset()
	s.Vocabulary.Reset()
	s.Progress.Reset()
	s.Achievements.Reset()
	s.StudySessions.Reset()
	s.Moderation.Reset()
	s.Users.Reset()
}

// App is the composition root of the client.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Storage  storage.SessionStorage
	Client   *api.Client
	Services *service.Services
	Session  *session.Session
	Stores   *Stores
	Router   *router.Router
}

// OpenStorage opens the durable session storage selected by kind.
func OpenStorage(ctx context.Context, kind, path string) (storage.SessionStorage, error) {
	switch kind {
	case config.StoreBolt, "":
		s, err := boltdb.New(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreSQLite:
		s, err := sqlite.New(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", kind)
	}
}

// New opens storage, builds all components and restores a previously saved session.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	st, err := OpenStorage(ctx, cfg.Store, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a := &App{Config: cfg, Logger: logger, Storage: st}

	// клиент берет токен из сессии, а 401 завершает ее
	a.Client = api.NewClient(cfg.ServerURL,
		api.WithTokenSource(api.TokenFunc(func() string { return a.Session.Token() })),
		api.WithUnauthorizedHandler(a.handleUnauthorized),
		api.WithLogger(logger),
		api.WithTimeout(cfg.HTTPTimeout),
	)
	a.Services = service.New(a.Client)
	a.Session = session.New(st, a.Services.Auth, logger)
	a.Stores = newStores(a.Services, a.Session, logger)
	a.Router = router.New(a.Session)
	a.Session.OnLogout(a.Stores.Reset)

	if err := a.Session.Restore(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) handleUnauthorized(ctx context.Context) {
	if !a.Session.IsAuthenticated() {
		return
	}
	a.Logger.Warn("server rejected the session, logging out")
	// запрос уже мог быть отменен, а хранилище надо очистить в любом случае
	if err := a.Session.Logout(context.WithoutCancel(ctx)); err != nil {
		a.Logger.Error("logout after 401 failed", "error", err)
	}
}

// Close releases the storage.
func (a *App) Close() error {
	if a.Storage == nil {
		return nil
	}
	if err := a.Storage.Close(); err != nil && !errors.Is(err, storage.ErrStorageClosed) {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}
