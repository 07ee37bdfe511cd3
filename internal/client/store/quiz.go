package store

import (
	"context"
	"log/slog"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// QuizAPI is implemented by service.QuizService.
type QuizAPI interface {
	Create(ctx context.Context, lessonID string, req pkgapi.QuizRequest) (*pkgapi.Quiz, error)
	Get(ctx context.Context, quizID string) (*pkgapi.Quiz, error)
	ListByLesson(ctx context.Context, lessonID string) ([]pkgapi.Quiz, error)
	List(ctx context.Context) ([]pkgapi.Quiz, error)
	Update(ctx context.Context, quizID string, req pkgapi.QuizRequest) (*pkgapi.Quiz, error)
	Delete(ctx context.Context, quizID string) (*pkgapi.MessageResponse, error)
	Submit(ctx context.Context, req pkgapi.SubmitQuizRequest) (*pkgapi.QuizAttempt, error)
	MyAttempts(ctx context.Context) ([]pkgapi.QuizAttempt, error)
	Attempt(ctx context.Context, attemptID string) (*pkgapi.QuizAttempt, error)
}

// QuizState is a snapshot of QuizStore.
type QuizState struct {
	State[pkgapi.Quiz]
	CurrentAttempt *pkgapi.QuizAttempt
	Attempts       []pkgapi.QuizAttempt
}

// QuizStore holds quizzes plus the user's attempts.
type QuizStore struct {
	api            QuizAPI
	attempts       list[pkgapi.QuizAttempt]
	currentAttempt slot[pkgapi.QuizAttempt]
	crud[pkgapi.Quiz]
}

// NewQuizStore creates an empty quiz container.
func NewQuizStore(api QuizAPI, logger *slog.Logger) *QuizStore {
	attemptKey := func(a pkgapi.QuizAttempt) string { return a.ID }
	return &QuizStore{
		api:            api,
		crud:           newCrud("quizzes", logger, func(q pkgapi.Quiz) string { return q.ID }),
		attempts:       newList(attemptKey),
		currentAttempt: newSlot(attemptKey),
	}
}

// State returns a copy of the container state.
func (s *QuizStore) State() QuizState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return QuizState{
		State:          s.state(),
		Attempts:       s.attempts.snapshot(),
		CurrentAttempt: s.currentAttempt.snapshot(),
	}
}

// Reset drops quizzes and attempts; actions still in flight are not applied.
func (s *QuizStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.attempts.reset()
	s.currentAttempt.reset()
}

// FetchByLesson загружает квизы урока.
func (s *QuizStore) FetchByLesson(ctx context.Context, lessonID string) ([]pkgapi.Quiz, error) {
	return s.fetchAll(ctx, "fetchByLesson", "Failed to fetch quizzes", func(ctx context.Context) ([]pkgapi.Quiz, error) {
		return s.api.ListByLesson(ctx, lessonID)
	})
}

// FetchAll loads every quiz regardless of lesson.
func (s *QuizStore) FetchAll(ctx context.Context) ([]pkgapi.Quiz, error) {
	return s.fetchAll(ctx, "fetchAll", "Failed to fetch quizzes", s.api.List)
}

// FetchByID makes the quiz current, questions included.
func (s *QuizStore) FetchByID(ctx context.Context, quizID string) (*pkgapi.Quiz, error) {
	return s.fetchOne(ctx, "fetchById", "Failed to fetch quiz", func(ctx context.Context) (*pkgapi.Quiz, error) {
		return s.api.Get(ctx, quizID)
	})
}

// Create adds the new quiz to items.
func (s *QuizStore) Create(ctx context.Context, lessonID string, req pkgapi.QuizRequest) (*pkgapi.Quiz, error) {
	return s.create(ctx, "create", "Failed to create quiz", func(ctx context.Context) (*pkgapi.Quiz, error) {
		return s.api.Create(ctx, lessonID, req)
	})
}

// Update patches the quiz in items and current.
func (s *QuizStore) Update(ctx context.Context, quizID string, req pkgapi.QuizRequest) (*pkgapi.Quiz, error) {
	return s.update(ctx, "update", "Failed to update quiz", func(ctx context.Context) (*pkgapi.Quiz, error) {
		return s.api.Update(ctx, quizID, req)
	})
}

// Delete удаляет квиз после ответа сервера.
func (s *QuizStore) Delete(ctx context.Context, quizID string) error {
	return s.remove(ctx, quizID, "delete", "Failed to delete quiz", func(ctx context.Context) error {
		_, err := s.api.Delete(ctx, quizID)
		return err
	})
}

// Submit sends the answers; the graded attempt becomes the current attempt.
func (s *QuizStore) Submit(ctx context.Context, req pkgapi.SubmitQuizRequest) (*pkgapi.QuizAttempt, error) {
	return call(ctx, &s.base, "submit", "Failed to submit quiz", func(ctx context.Context) (*pkgapi.QuizAttempt, error) {
		return s.api.Submit(ctx, req)
	}, func(a *pkgapi.QuizAttempt) {
		if a == nil {
			return
		}
		s.attempts.upsert(*a)
		s.currentAttempt.set(a)
	})
}

// FetchMyAttempts replaces Attempts with the signed-in user's attempts.
func (s *QuizStore) FetchMyAttempts(ctx context.Context) ([]pkgapi.QuizAttempt, error) {
	return fetchInto(ctx, &s.base, &s.attempts, "fetchMyAttempts", "Failed to fetch quiz attempts", s.api.MyAttempts)
}

// FetchAttempt делает попытку текущей.
func (s *QuizStore) FetchAttempt(ctx context.Context, attemptID string) (*pkgapi.QuizAttempt, error) {
	return fetchCurrent(ctx, &s.base, &s.currentAttempt, "fetchAttempt", "Failed to fetch quiz attempt", func(ctx context.Context) (*pkgapi.QuizAttempt, error) {
		return s.api.Attempt(ctx, attemptID)
	})
}
