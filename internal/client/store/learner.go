package store

import (
	"context"
	"log/slog"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// ProgressAPI is implemented by service.ProgressService.
type ProgressAPI interface {
	Enroll(ctx context.Context, courseID string) (*pkgapi.Progress, error)
	CompleteLesson(ctx context.Context, courseID string, req pkgapi.LessonCompletionRequest) (*pkgapi.Progress, error)
	ForCourse(ctx context.Context, courseID string) (*pkgapi.Progress, error)
	Mine(ctx context.Context) ([]pkgapi.Progress, error)
}

// ProgressStore holds the signed-in user's course progress, keyed by course id.
type ProgressStore struct {
	api ProgressAPI
	crud[pkgapi.Progress]
}

// NewProgressStore creates an empty progress container.
func NewProgressStore(api ProgressAPI, logger *slog.Logger) *ProgressStore {
	return &ProgressStore{
		api:  api,
		crud: newCrud("progress", logger, func(p pkgapi.Progress) string { return p.CourseID }),
	}
}

// FetchMine загружает прогресс текущего пользователя по всем курсам.
func (s *ProgressStore) FetchMine(ctx context.Context) ([]pkgapi.Progress, error) {
	return s.fetchAll(ctx, "fetchMine", "Failed to fetch progress", s.api.Mine)
}

// FetchForCourse makes the course's progress current. Unlike other fetches a failure
// clears current: "not enrolled" is reported by the server as an error.
func (s *ProgressStore) FetchForCourse(ctx context.Context, courseID string) (*pkgapi.Progress, error) {
	s.mu.Lock()
	seq := s.current.issue()
	s.mu.Unlock()

	p, err := call(ctx, &s.base, "fetchForCourse", "Failed to fetch course progress", func(ctx context.Context) (*pkgapi.Progress, error) {
		return s.api.ForCourse(ctx, courseID)
	}, func(p *pkgapi.Progress) {
		s.current.replace(seq, p)
	})
	if err != nil {
		s.mu.Lock()
		s.current.replace(seq, nil)
		s.mu.Unlock()
	}
	return p, err
}

// Enroll upserts the returned progress and makes it current.
func (s *ProgressStore) Enroll(ctx context.Context, courseID string) (*pkgapi.Progress, error) {
	return call(ctx, &s.base, "enroll", "Failed to enroll in course", func(ctx context.Context) (*pkgapi.Progress, error) {
		return s.api.Enroll(ctx, courseID)
	}, func(p *pkgapi.Progress) {
		if p == nil {
			return
		}
		s.items.upsert(*p)
		s.current.set(p)
	})
}

// CompleteLesson marks the lesson done and stores the updated course progress.
func (s *ProgressStore) CompleteLesson(ctx context.Context, courseID, lessonID string) (*pkgapi.Progress, error) {
	req := pkgapi.LessonCompletionRequest{LessonID: lessonID}
	return s.update(ctx, "completeLesson", "Failed to mark lesson as completed", func(ctx context.Context) (*pkgapi.Progress, error) {
		return s.api.CompleteLesson(ctx, courseID, req)
	})
}

// AchievementAPI is implemented by service.AchievementService.
type AchievementAPI interface {
	Create(ctx context.Context, a pkgapi.Achievement) (*pkgapi.Achievement, error)
	Get(ctx context.Context, id string) (*pkgapi.Achievement, error)
	List(ctx context.Context) ([]pkgapi.Achievement, error)
	Update(ctx context.Context, id string, a pkgapi.Achievement) (*pkgapi.Achievement, error)
	Delete(ctx context.Context, id string) (*pkgapi.MessageResponse, error)
	Grant(ctx context.Context, userID, achievementID string) (*pkgapi.MessageResponse, error)
	CheckMine(ctx context.Context) (*pkgapi.MessageResponse, error)
	ForUser(ctx context.Context, userID string) ([]pkgapi.Achievement, error)
}

// AchievementState is a snapshot of AchievementStore.
type AchievementState struct {
	State[pkgapi.Achievement]
	UserAchievements []pkgapi.Achievement
}

// AchievementStore holds the achievement catalogue and the achievements granted to one user.
type AchievementStore struct {
	api     AchievementAPI
	granted list[pkgapi.Achievement]
	crud[pkgapi.Achievement]
}

// NewAchievementStore creates an empty achievement container.
func NewAchievementStore(api AchievementAPI, logger *slog.Logger) *AchievementStore {
	key := func(a pkgapi.Achievement) string { return a.ID }
	return &AchievementStore{
		api:     api,
		crud:    newCrud("achievements", logger, key),
		granted: newList(key),
	}
}

// State returns a copy of the container state.
func (s *AchievementStore) State() AchievementState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AchievementState{State: s.state(), UserAchievements: s.granted.snapshot()}
}

// Reset drops all achievements including the granted ones.
func (s *AchievementStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.granted.reset()
}

// FetchAll loads every defined achievement.
func (s *AchievementStore) FetchAll(ctx context.Context) ([]pkgapi.Achievement, error) {
	return s.fetchAll(ctx, "fetchAll", "Failed to fetch achievements", s.api.List)
}

// FetchByID делает достижение текущим.
func (s *AchievementStore) FetchByID(ctx context.Context, id string) (*pkgapi.Achievement, error) {
	return s.fetchOne(ctx, "fetchById", "Failed to fetch achievement", func(ctx context.Context) (*pkgapi.Achievement, error) {
		return s.api.Get(ctx, id)
	})
}

// Create adds the new achievement to items.
func (s *AchievementStore) Create(ctx context.Context, a pkgapi.Achievement) (*pkgapi.Achievement, error) {
	return s.create(ctx, "create", "Failed to create achievement", func(ctx context.Context) (*pkgapi.Achievement, error) {
		return s.api.Create(ctx, a)
	})
}

// Update patches the achievement in items and current.
func (s *AchievementStore) Update(ctx context.Context, id string, a pkgapi.Achievement) (*pkgapi.Achievement, error) {
	return s.update(ctx, "update", "Failed to update achievement", func(ctx context.Context) (*pkgapi.Achievement, error) {
		return s.api.Update(ctx, id, a)
	})
}

// Delete removes the achievement locally after the server confirms.
func (s *AchievementStore) Delete(ctx context.Context, id string) error {
	return s.remove(ctx, id, "delete", "Failed to delete achievement", func(ctx context.Context) error {
		_, err := s.api.Delete(ctx, id)
		return err
	})
}

// Grant gives an achievement to a user. Nothing is patched locally.
func (s *AchievementStore) Grant(ctx context.Context, achievementID, userID string) (string, error) {
	resp, err := call(ctx, &s.base, "grant", "Failed to grant achievement", func(ctx context.Context) (*pkgapi.MessageResponse, error) {
		return s.api.Grant(ctx, userID, achievementID)
	}, nil)
	if err != nil || resp == nil {
		return "", err
	}
	return resp.Message, nil
}

// CheckMine asks the server to award whatever the current user has earned.
func (s *AchievementStore) CheckMine(ctx context.Context) (string, error) {
	resp, err := call(ctx, &s.base, "checkMyAchievements", "Failed to check achievements", s.api.CheckMine, nil)
	if err != nil || resp == nil {
		return "", err
	}
	return resp.Message, nil
}

// FetchUserGranted загружает достижения, выданные пользователю.
func (s *AchievementStore) FetchUserGranted(ctx context.Context, userID string) ([]pkgapi.Achievement, error) {
	return fetchInto(ctx, &s.base, &s.granted, "fetchUserAchievements", "Failed to fetch user achievements", func(ctx context.Context) ([]pkgapi.Achievement, error) {
		return s.api.ForUser(ctx, userID)
	})
}

// StudySessionAPI is implemented by service.StudySessionService.
type StudySessionAPI interface {
	Start(ctx context.Context, req pkgapi.StartStudySessionRequest) (*pkgapi.StudySession, error)
	End(ctx context.Context, id string) (*pkgapi.StudySession, error)
	Get(ctx context.Context, id string) (*pkgapi.StudySession, error)
	Mine(ctx context.Context) ([]pkgapi.StudySession, error)
	ForUser(ctx context.Context, userID string) ([]pkgapi.StudySession, error)
	Delete(ctx context.Context, id string) error
}

// StudySessionState is a snapshot of StudySessionStore.
type StudySessionState struct {
	Current *pkgapi.StudySession
	Error   string
	Mine    []pkgapi.StudySession
	ByUser  []pkgapi.StudySession
	Loading bool
}

// StudySessionStore holds the user's own sessions, the sessions of an inspected user
// and the session currently running.
type StudySessionStore struct {
	api     StudySessionAPI
	mine    list[pkgapi.StudySession]
	byUser  list[pkgapi.StudySession]
	current slot[pkgapi.StudySession]
	base
}

// NewStudySessionStore creates an empty study session container.
func NewStudySessionStore(api StudySessionAPI, logger *slog.Logger) *StudySessionStore {
	key := func(s pkgapi.StudySession) string { return s.ID }
	return &StudySessionStore{
		api:     api,
		base:    newBase("studySessions", logger),
		mine:    newList(key),
		byUser:  newList(key),
		current: newSlot(key),
	}
}

// State returns a copy of the container state.
func (s *StudySessionStore) State() StudySessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StudySessionState{
		Mine:    s.mine.snapshot(),
		ByUser:  s.byUser.snapshot(),
		Current: s.current.snapshot(),
		Loading: s.inflight > 0,
		Error:   s.errMsg,
	}
}

// Reset drops all sessions; actions still in flight are not applied.
func (s *StudySessionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mine.reset()
	s.byUser.reset()
	s.current.reset()
	s.resetBase()
}

// Start opens a session, makes it current and appends it to Mine.
func (s *StudySessionStore) Start(ctx context.Context, req pkgapi.StartStudySessionRequest) (*pkgapi.StudySession, error) {
	return call(ctx, &s.base, "start", "Failed to start study session", func(ctx context.Context) (*pkgapi.StudySession, error) {
		return s.api.Start(ctx, req)
	}, func(ss *pkgapi.StudySession) {
		if ss == nil {
			return
		}
		s.mine.upsert(*ss)
		s.current.set(ss)
	})
}

// End closes a session; the ended session is no longer current.
func (s *StudySessionStore) End(ctx context.Context, id string) (*pkgapi.StudySession, error) {
	return call(ctx, &s.base, "end", "Failed to end study session", func(ctx context.Context) (*pkgapi.StudySession, error) {
		return s.api.End(ctx, id)
	}, func(ss *pkgapi.StudySession) {
		if ss != nil {
			s.mine.update(*ss)
			s.byUser.update(*ss)
		}
		s.current.clearIf(id)
	})
}

// FetchByID делает сессию текущей.
func (s *StudySessionStore) FetchByID(ctx context.Context, id string) (*pkgapi.StudySession, error) {
	return fetchCurrent(ctx, &s.base, &s.current, "fetchById", "Failed to fetch study session", func(ctx context.Context) (*pkgapi.StudySession, error) {
		return s.api.Get(ctx, id)
	})
}

// FetchMine loads the signed-in user's sessions.
func (s *StudySessionStore) FetchMine(ctx context.Context) ([]pkgapi.StudySession, error) {
	return fetchInto(ctx, &s.base, &s.mine, "fetchMine", "Failed to fetch study sessions", s.api.Mine)
}

// FetchByUser loads another user's sessions into ByUser.
func (s *StudySessionStore) FetchByUser(ctx context.Context, userID string) ([]pkgapi.StudySession, error) {
	return fetchInto(ctx, &s.base, &s.byUser, "fetchByUser", "Failed to fetch study sessions", func(ctx context.Context) ([]pkgapi.StudySession, error) {
		return s.api.ForUser(ctx, userID)
	})
}

// Delete удаляет сессию из Mine и ByUser.
func (s *StudySessionStore) Delete(ctx context.Context, id string) error {
	_, err := call(ctx, &s.base, "delete", "Failed to delete study session", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.Delete(ctx, id)
	}, func(struct{}) {
		s.mine.remove(id)
		s.byUser.remove(id)
		s.current.clearIf(id)
	})
	return err
}
