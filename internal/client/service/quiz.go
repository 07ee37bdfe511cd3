package service

import (
	"context"
	"net/http"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// QuizService wraps quiz and quiz-attempt endpoints.
type QuizService struct {
	client Doer
}

// NewQuizService creates the quiz endpoints client.
func NewQuizService(client Doer) *QuizService {
	return &QuizService{client: client}
}

// Create adds a quiz to a lesson.
func (s *QuizService) Create(ctx context.Context, lessonID string, req pkgapi.QuizRequest) (*pkgapi.Quiz, error) {
	if err := required("lessonId", lessonID); err != nil {
		return nil, err
	}
	return send[pkgapi.Quiz](ctx, s.client, http.MethodPost, "/lessons/"+escape(lessonID)+"/quizzes", nil, req)
}

// Get fetches a quiz by its own id. The server exposes quizzes at the top level;
// the lesson id is not part of the path.
func (s *QuizService) Get(ctx context.Context, quizID string) (*pkgapi.Quiz, error) {
	if err := required("quizId", quizID); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.Quiz](ctx, s.client, "/quizzes/"+escape(quizID), nil)
}

// ListByLesson возвращает квизы урока.
func (s *QuizService) ListByLesson(ctx context.Context, lessonID string) ([]pkgapi.Quiz, error) {
	if err := required("lessonId", lessonID); err != nil {
		return nil, err
	}
	return fetchList[pkgapi.Quiz](ctx, s.client, "/lessons/"+escape(lessonID)+"/quizzes", nil)
}

// List returns every quiz.
func (s *QuizService) List(ctx context.Context) ([]pkgapi.Quiz, error) {
	return fetchList[pkgapi.Quiz](ctx, s.client, "/quizzes", nil)
}

// Update replaces the quiz, PUT /quizzes/{id}.
func (s *QuizService) Update(ctx context.Context, quizID string, req pkgapi.QuizRequest) (*pkgapi.Quiz, error) {
	if err := required("quizId", quizID); err != nil {
		return nil, err
	}
	return send[pkgapi.Quiz](ctx, s.client, http.MethodPut, "/quizzes/"+escape(quizID), nil, req)
}

// Delete удаляет квиз.
func (s *QuizService) Delete(ctx context.Context, quizID string) (*pkgapi.MessageResponse, error) {
	if err := required("quizId", quizID); err != nil {
		return nil, err
	}
	return remove(ctx, s.client, "/quizzes/"+escape(quizID))
}

// Submit sends the answers and returns the graded attempt.
func (s *QuizService) Submit(ctx context.Context, req pkgapi.SubmitQuizRequest) (*pkgapi.QuizAttempt, error) {
	if err := validBody(req); err != nil {
		return nil, err
	}
	return send[pkgapi.QuizAttempt](ctx, s.client, http.MethodPost, "/quizzes/submit", nil, req)
}

// MyAttempts возвращает попытки текущего пользователя.
func (s *QuizService) MyAttempts(ctx context.Context) ([]pkgapi.QuizAttempt, error) {
	return fetchList[pkgapi.QuizAttempt](ctx, s.client, "/quizzes/my-quiz-attempts", nil)
}

// Attempt returns one graded attempt.
func (s *QuizService) Attempt(ctx context.Context, attemptID string) (*pkgapi.QuizAttempt, error) {
	if err := required("attemptId", attemptID); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.QuizAttempt](ctx, s.client, "/quizzes/quiz-attempts/"+escape(attemptID), nil)
}

// FlashcardService wraps flashcard set endpoints.
type FlashcardService struct {
	client Doer
}

// NewFlashcardService creates the flashcard endpoints client.
func NewFlashcardService(client Doer) *FlashcardService {
	return &FlashcardService{client: client}
}

// Create adds a flashcard set to a lesson.
func (s *FlashcardService) Create(ctx context.Context, lessonID string, req pkgapi.FlashcardSetRequest) (*pkgapi.FlashcardSet, error) {
	if err := required("lessonId", lessonID); err != nil {
		return nil, err
	}
	return send[pkgapi.FlashcardSet](ctx, s.client, http.MethodPost, "/lessons/"+escape(lessonID)+"/flashcards", nil, req)
}

// Get возвращает набор вместе с карточками.
func (s *FlashcardService) Get(ctx context.Context, setID string) (*pkgapi.FlashcardSet, error) {
	if err := required("flashcardSetId", setID); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.FlashcardSet](ctx, s.client, "/flashcards/"+escape(setID), nil)
}

// ListByLesson returns the sets of a lesson.
func (s *FlashcardService) ListByLesson(ctx context.Context, lessonID string) ([]pkgapi.FlashcardSet, error) {
	if err := required("lessonId", lessonID); err != nil {
		return nil, err
	}
	return fetchList[pkgapi.FlashcardSet](ctx, s.client, "/lessons/"+escape(lessonID)+"/flashcards", nil)
}

// Update replaces the set, PUT /flashcards/{id}.
func (s *FlashcardService) Update(ctx context.Context, setID string, req pkgapi.FlashcardSetRequest) (*pkgapi.FlashcardSet, error) {
	if err := required("flashcardSetId", setID); err != nil {
		return nil, err
	}
	return send[pkgapi.FlashcardSet](ctx, s.client, http.MethodPut, "/flashcards/"+escape(setID), nil, req)
}

// Delete удаляет набор карточек.
func (s *FlashcardService) Delete(ctx context.Context, setID string) (*pkgapi.MessageResponse, error) {
	if err := required("flashcardSetId", setID); err != nil {
		return nil, err
	}
	return remove(ctx, s.client, "/flashcards/"+escape(setID))
}
