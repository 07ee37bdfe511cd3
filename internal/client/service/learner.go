package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iudanet/nihongo/internal/client/api"
	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// ProgressService wraps /progress for the signed-in user.
type ProgressService struct {
	client Doer
}

// NewProgressService creates the progress endpoints client.
func NewProgressService(client Doer) *ProgressService {
	return &ProgressService{client: client}
}

// Enroll записывает текущего пользователя на курс.
func (s *ProgressService) Enroll(ctx context.Context, courseID string) (*pkgapi.Progress, error) {
	if err := required("courseId", courseID); err != nil {
		return nil, err
	}
	return send[pkgapi.Progress](ctx, s.client, http.MethodPost, "/progress/enroll/"+escape(courseID), nil, nil)
}

// CompleteLesson marks a lesson done and returns the course progress.
func (s *ProgressService) CompleteLesson(ctx context.Context, courseID string, req pkgapi.LessonCompletionRequest) (*pkgapi.Progress, error) {
	if err := required("courseId", courseID); err != nil {
		return nil, err
	}
	if err := validBody(req); err != nil {
		return nil, err
	}
	return send[pkgapi.Progress](ctx, s.client, http.MethodPost, "/progress/courses/"+escape(courseID)+"/complete-lesson", nil, req)
}

// ForCourse returns the current user's progress in one course.
func (s *ProgressService) ForCourse(ctx context.Context, courseID string) (*pkgapi.Progress, error) {
	if err := required("courseId", courseID); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.Progress](ctx, s.client, "/progress/courses/"+escape(courseID), nil)
}

// Mine возвращает прогресс по всем курсам пользователя.
func (s *ProgressService) Mine(ctx context.Context) ([]pkgapi.Progress, error) {
	return fetchList[pkgapi.Progress](ctx, s.client, "/progress/my-progress", nil)
}

// AchievementService wraps /achievements.
type AchievementService struct {
	client Doer
}

// NewAchievementService creates the achievement endpoints client.
func NewAchievementService(client Doer) *AchievementService {
	return &AchievementService{client: client}
}

// Create defines a new achievement.
func (s *AchievementService) Create(ctx context.Context, a pkgapi.Achievement) (*pkgapi.Achievement, error) {
	return send[pkgapi.Achievement](ctx, s.client, http.MethodPost, "/achievements", nil, a)
}

// Get возвращает достижение по id.
func (s *AchievementService) Get(ctx context.Context, id string) (*pkgapi.Achievement, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.Achievement](ctx, s.client, "/achievements/"+escape(id), nil)
}

// List returns every defined achievement.
func (s *AchievementService) List(ctx context.Context) ([]pkgapi.Achievement, error) {
	return fetchList[pkgapi.Achievement](ctx, s.client, "/achievements", nil)
}

// Update replaces the achievement, PUT /achievements/{id}.
func (s *AchievementService) Update(ctx context.Context, id string, a pkgapi.Achievement) (*pkgapi.Achievement, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return send[pkgapi.Achievement](ctx, s.client, http.MethodPut, "/achievements/"+escape(id), nil, a)
}

// Delete удаляет достижение.
func (s *AchievementService) Delete(ctx context.Context, id string) (*pkgapi.MessageResponse, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return remove(ctx, s.client, "/achievements/"+escape(id))
}

// Grant gives achievementID to userID.
func (s *AchievementService) Grant(ctx context.Context, userID, achievementID string) (*pkgapi.MessageResponse, error) {
	if err := required("userId", userID, "achievementId", achievementID); err != nil {
		return nil, err
	}
	path := "/achievements/" + escape(achievementID) + "/grant-to-user/" + escape(userID)
	return send[pkgapi.MessageResponse](ctx, s.client, http.MethodPost, path, nil, nil)
}

// CheckMine asks the server to evaluate achievement criteria for the current user.
func (s *AchievementService) CheckMine(ctx context.Context) (*pkgapi.MessageResponse, error) {
	return send[pkgapi.MessageResponse](ctx, s.client, http.MethodPost, "/achievements/check-my-achievements", nil, nil)
}

// ForUser returns the achievements granted to a user.
func (s *AchievementService) ForUser(ctx context.Context, userID string) ([]pkgapi.Achievement, error) {
	if err := required("userId", userID); err != nil {
		return nil, err
	}
	return fetchList[pkgapi.Achievement](ctx, s.client, "/achievements/user/"+escape(userID), nil)
}

// ModerationService wraps /moderation-logs.
type ModerationService struct {
	client Doer
}

// NewModerationService creates the moderation log endpoints client.
func NewModerationService(client Doer) *ModerationService {
	return &ModerationService{client: client}
}

// Create добавляет запись в журнал модерации.
func (s *ModerationService) Create(ctx context.Context, log pkgapi.ModerationLog) (*pkgapi.ModerationLog, error) {
	return send[pkgapi.ModerationLog](ctx, s.client, http.MethodPost, "/moderation-logs", nil, log)
}

// Get returns one moderation log entry.
func (s *ModerationService) Get(ctx context.Context, id string) (*pkgapi.ModerationLog, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.ModerationLog](ctx, s.client, "/moderation-logs/"+escape(id), nil)
}

// List returns the whole moderation log.
func (s *ModerationService) List(ctx context.Context) ([]pkgapi.ModerationLog, error) {
	return fetchList[pkgapi.ModerationLog](ctx, s.client, "/moderation-logs", nil)
}

// Update replaces the entry, PUT /moderation-logs/{id}.
func (s *ModerationService) Update(ctx context.Context, id string, log pkgapi.ModerationLog) (*pkgapi.ModerationLog, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return send[pkgapi.ModerationLog](ctx, s.client, http.MethodPut, "/moderation-logs/"+escape(id), nil, log)
}

// Delete удаляет запись журнала.
func (s *ModerationService) Delete(ctx context.Context, id string) (*pkgapi.MessageResponse, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return remove(ctx, s.client, "/moderation-logs/"+escape(id))
}

// StudySessionService wraps /study-sessions.
type StudySessionService struct {
	client Doer
}

// NewStudySessionService creates the study session endpoints client.
func NewStudySessionService(client Doer) *StudySessionService {
	return &StudySessionService{client: client}
}

// Start opens a session. Lesson and course are optional, the activity type is not.
// Parameters travel in the query string; the body is empty.
func (s *StudySessionService) Start(ctx context.Context, req pkgapi.StartStudySessionRequest) (*pkgapi.StudySession, error) {
	if err := validBody(req); err != nil {
		return nil, err
	}
	query := url.Values{"activityType": {req.ActivityType}}
	if req.LessonID != "" {
		query.Set("lessonId", req.LessonID)
	}
	if req.CourseID != "" {
		query.Set("courseId", req.CourseID)
	}
	return send[pkgapi.StudySession](ctx, s.client, http.MethodPost, "/study-sessions/start", query, nil)
}

// End закрывает сессию; сервер считает длительность.
func (s *StudySessionService) End(ctx context.Context, id string) (*pkgapi.StudySession, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return send[pkgapi.StudySession](ctx, s.client, http.MethodPost, "/study-sessions/"+escape(id)+"/end", nil, nil)
}

// Get returns one study session.
func (s *StudySessionService) Get(ctx context.Context, id string) (*pkgapi.StudySession, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.StudySession](ctx, s.client, "/study-sessions/"+escape(id), nil)
}

// Mine returns the current user's sessions.
func (s *StudySessionService) Mine(ctx context.Context) ([]pkgapi.StudySession, error) {
	return fetchList[pkgapi.StudySession](ctx, s.client, "/study-sessions/my-sessions", nil)
}

// ForUser возвращает сессии другого пользователя.
func (s *StudySessionService) ForUser(ctx context.Context, userID string) ([]pkgapi.StudySession, error) {
	if err := required("userId", userID); err != nil {
		return nil, err
	}
	return fetchList[pkgapi.StudySession](ctx, s.client, "/study-sessions/user/"+escape(userID), nil)
}

// Delete removes a session; the server answers with an empty body.
func (s *StudySessionService) Delete(ctx context.Context, id string) error {
	if err := required("id", id); err != nil {
		return err
	}
	return s.client.Do(ctx, api.Request{Method: http.MethodDelete, Path: "/study-sessions/" + escape(id)}, nil)
}

// UserService wraps /users.
type UserService struct {
	client Doer
}

// NewUserService creates the user endpoints client.
func NewUserService(client Doer) *UserService {
	return &UserService{client: client}
}

// Get возвращает пользователя по id.
func (s *UserService) Get(ctx context.Context, id string) (*pkgapi.User, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.User](ctx, s.client, "/users/"+escape(id), nil)
}

// Me returns the profile behind the current bearer token.
func (s *UserService) Me(ctx context.Context) (*pkgapi.User, error) {
	return fetchOne[pkgapi.User](ctx, s.client, "/users/me", nil)
}

// Update changes the profile, PUT /users/{id}.
func (s *UserService) Update(ctx context.Context, id string, req pkgapi.UserProfileUpdateRequest) (*pkgapi.User, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	if err := validBody(req); err != nil {
		return nil, err
	}
	return send[pkgapi.User](ctx, s.client, http.MethodPut, "/users/"+escape(id), nil, req)
}

// Delete удаляет пользователя.
func (s *UserService) Delete(ctx context.Context, id string) (*pkgapi.MessageResponse, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return remove(ctx, s.client, "/users/"+escape(id))
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]pkgapi.User, error) {
	return fetchList[pkgapi.User](ctx, s.client, "/users", nil)
}
