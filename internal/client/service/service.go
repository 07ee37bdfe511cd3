// Package service contains one thin request builder per server resource.
// Services hold no state: each method checks its required parameters, builds the
// method/path/query/body and hands the call to the HTTP client.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/iudanet/nihongo/internal/client/api"
)

//go:generate moq -out doer_mock.go . Doer

// Doer sends one request to the REST API. *api.Client implements it.
type Doer interface {
	Do(ctx context.Context, r api.Request, result any) error
}

var (
	// ErrMissingParam indicates a required path or query parameter was empty.
	ErrMissingParam = errors.New("missing required parameter")

	// ErrInvalidRequest indicates a request body failed local validation.
	ErrInvalidRequest = errors.New("invalid request")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// required проверяет обязательные параметры пути; ошибка возникает до отправки запроса
func required(params ...string) error {
	if len(params)%2 != 0 {
		panic("service: required expects name/value pairs")
	}
	for i := 0; i < len(params); i += 2 {
		if err := validate.Var(params[i+1], "required"); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingParam, params[i])
		}
	}
	return nil
}

// validBody runs struct-tag validation on a request body.
func validBody(body any) error {
	if err := validate.Struct(body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed on %q", ErrInvalidRequest, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// escape готовит значение для подстановки в путь
func escape(v string) string {
	return url.PathEscape(v)
}

// Services groups every resource service over one client.
type Services struct {
	Auth          *AuthService
	Courses       *CourseService
	Lessons       *LessonService
	Quizzes       *QuizService
	Flashcards    *FlashcardService
	Kanji         *KanjiService
	JapaneseText  *JapaneseTextService
	Progress      *ProgressService
	Achievements  *AchievementService
	Moderation    *ModerationService
	StudySessions *StudySessionService
	Users         *UserService
	Search        *SearchService
}

// New creates all resource services backed by client.
func New(client Doer) *Services {
	return &Services{
		Auth:          NewAuthService(client),
		Courses:       NewCourseService(client),
		Lessons:       NewLessonService(client),
		Quizzes:       NewQuizService(client),
		Flashcards:    NewFlashcardService(client),
		Kanji:         NewKanjiService(client),
		JapaneseText:  NewJapaneseTextService(client),
		Progress:      NewProgressService(client),
		Achievements:  NewAchievementService(client),
		Moderation:    NewModerationService(client),
		StudySessions: NewStudySessionService(client),
		Users:         NewUserService(client),
		Search:        NewSearchService(client),
	}
}
