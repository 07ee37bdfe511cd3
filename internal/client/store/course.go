package store

import (
	"context"
	"log/slog"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// CourseAPI is implemented by service.CourseService.
type CourseAPI interface {
	Create(ctx context.Context, req pkgapi.CourseRequest) (*pkgapi.Course, error)
	Get(ctx context.Context, id string) (*pkgapi.Course, error)
	List(ctx context.Context) ([]pkgapi.Course, error)
	Update(ctx context.Context, id string, req pkgapi.CourseRequest) (*pkgapi.Course, error)
	Delete(ctx context.Context, id string) (*pkgapi.MessageResponse, error)
}

// CourseStore holds courses.
type CourseStore struct {
	api CourseAPI
	crud[pkgapi.Course]
}

// NewCourseStore creates an empty course container.
func NewCourseStore(api CourseAPI, logger *slog.Logger) *CourseStore {
	return &CourseStore{
		api:  api,
		crud: newCrud("courses", logger, func(c pkgapi.Course) string { return c.ID }),
	}
}

// FetchAll replaces items with the server's course list, order preserved.
func (s *CourseStore) FetchAll(ctx context.Context) ([]pkgapi.Course, error) {
	return s.fetchAll(ctx, "fetchAll", "Failed to fetch courses", s.api.List)
}

// FetchByID загружает курс в current.
func (s *CourseStore) FetchByID(ctx context.Context, id string) (*pkgapi.Course, error) {
	return s.fetchOne(ctx, "fetchById", "Failed to fetch course", func(ctx context.Context) (*pkgapi.Course, error) {
		return s.api.Get(ctx, id)
	})
}

// Create adds exactly one course, the one the server returned.
func (s *CourseStore) Create(ctx context.Context, req pkgapi.CourseRequest) (*pkgapi.Course, error) {
	return s.create(ctx, "create", "Failed to create course", func(ctx context.Context) (*pkgapi.Course, error) {
		return s.api.Create(ctx, req)
	})
}

// Update patches the course in items and current.
func (s *CourseStore) Update(ctx context.Context, id string, req pkgapi.CourseRequest) (*pkgapi.Course, error) {
	return s.update(ctx, "update", "Failed to update course", func(ctx context.Context) (*pkgapi.Course, error) {
		return s.api.Update(ctx, id, req)
	})
}

// Delete удаляет курс, порядок остальных сохраняется.
func (s *CourseStore) Delete(ctx context.Context, id string) error {
	return s.remove(ctx, id, "delete", "Failed to delete course", func(ctx context.Context) error {
		_, err := s.api.Delete(ctx, id)
		return err
	})
}

// LessonAPI is implemented by service.LessonService.
type LessonAPI interface {
	Create(ctx context.Context, courseID, moduleID string, req pkgapi.LessonRequest) (*pkgapi.Lesson, error)
	Get(ctx context.Context, courseID, moduleID, lessonID string) (*pkgapi.Lesson, error)
	ListByModule(ctx context.Context, moduleID string) ([]pkgapi.Lesson, error)
	Update(ctx context.Context, lessonID string, req pkgapi.LessonRequest) (*pkgapi.Lesson, error)
	Delete(ctx context.Context, lessonID string) (*pkgapi.MessageResponse, error)
}

// LessonStore holds the lessons of the last fetched module.
type LessonStore struct {
	api LessonAPI
	crud[pkgapi.Lesson]
}

// NewLessonStore creates an empty lesson container.
func NewLessonStore(api LessonAPI, logger *slog.Logger) *LessonStore {
	return &LessonStore{
		api:  api,
		crud: newCrud("lessons", logger, func(l pkgapi.Lesson) string { return l.ID }),
	}
}

// FetchByModule загружает уроки модуля.
func (s *LessonStore) FetchByModule(ctx context.Context, moduleID string) ([]pkgapi.Lesson, error) {
	return s.fetchAll(ctx, "fetchByModule", "Failed to fetch lessons", func(ctx context.Context) ([]pkgapi.Lesson, error) {
		return s.api.ListByModule(ctx, moduleID)
	})
}

// FetchByID makes the lesson current; the path needs course and module ids.
func (s *LessonStore) FetchByID(ctx context.Context, courseID, moduleID, lessonID string) (*pkgapi.Lesson, error) {
	return s.fetchOne(ctx, "fetchById", "Failed to fetch lesson", func(ctx context.Context) (*pkgapi.Lesson, error) {
		return s.api.Get(ctx, courseID, moduleID, lessonID)
	})
}

// Create adds the new lesson to items.
func (s *LessonStore) Create(ctx context.Context, courseID, moduleID string, req pkgapi.LessonRequest) (*pkgapi.Lesson, error) {
	return s.create(ctx, "create", "Failed to create lesson", func(ctx context.Context) (*pkgapi.Lesson, error) {
		return s.api.Create(ctx, courseID, moduleID, req)
	})
}

// Update patches the lesson in items and current.
func (s *LessonStore) Update(ctx context.Context, lessonID string, req pkgapi.LessonRequest) (*pkgapi.Lesson, error) {
	return s.update(ctx, "update", "Failed to update lesson", func(ctx context.Context) (*pkgapi.Lesson, error) {
		return s.api.Update(ctx, lessonID, req)
	})
}

// Delete removes the lesson locally after the server confirms.
func (s *LessonStore) Delete(ctx context.Context, lessonID string) error {
	return s.remove(ctx, lessonID, "delete", "Failed to delete lesson", func(ctx context.Context) error {
		_, err := s.api.Delete(ctx, lessonID)
		return err
	})
}

// FlashcardAPI is implemented by service.FlashcardService.
type FlashcardAPI interface {
	Create(ctx context.Context, lessonID string, req pkgapi.FlashcardSetRequest) (*pkgapi.FlashcardSet, error)
	Get(ctx context.Context, setID string) (*pkgapi.FlashcardSet, error)
	ListByLesson(ctx context.Context, lessonID string) ([]pkgapi.FlashcardSet, error)
	Update(ctx context.Context, setID string, req pkgapi.FlashcardSetRequest) (*pkgapi.FlashcardSet, error)
	Delete(ctx context.Context, setID string) (*pkgapi.MessageResponse, error)
}

// FlashcardStore holds flashcard sets.
type FlashcardStore struct {
	api FlashcardAPI
	crud[pkgapi.FlashcardSet]
}

// NewFlashcardStore creates an empty flashcard set container.
func NewFlashcardStore(api FlashcardAPI, logger *slog.Logger) *FlashcardStore {
	return &FlashcardStore{
		api:  api,
		crud: newCrud("flashcards", logger, func(f pkgapi.FlashcardSet) string { return f.ID }),
	}
}

// FetchByLesson загружает наборы карточек урока.
func (s *FlashcardStore) FetchByLesson(ctx context.Context, lessonID string) ([]pkgapi.FlashcardSet, error) {
	return s.fetchAll(ctx, "fetchByLesson", "Failed to fetch flashcard sets", func(ctx context.Context) ([]pkgapi.FlashcardSet, error) {
		return s.api.ListByLesson(ctx, lessonID)
	})
}

// FetchByID makes the set current, cards included.
func (s *FlashcardStore) FetchByID(ctx context.Context, setID string) (*pkgapi.FlashcardSet, error) {
	return s.fetchOne(ctx, "fetchById", "Failed to fetch flashcard set", func(ctx context.Context) (*pkgapi.FlashcardSet, error) {
		return s.api.Get(ctx, setID)
	})
}

// Create adds the new set to items.
func (s *FlashcardStore) Create(ctx context.Context, lessonID string, req pkgapi.FlashcardSetRequest) (*pkgapi.FlashcardSet, error) {
	return s.create(ctx, "create", "Failed to create flashcard set", func(ctx context.Context) (*pkgapi.FlashcardSet, error) {
		return s.api.Create(ctx, lessonID, req)
	})
}

// Update заменяет набор в items и current.
func (s *FlashcardStore) Update(ctx context.Context, setID string, req pkgapi.FlashcardSetRequest) (*pkgapi.FlashcardSet, error) {
	return s.update(ctx, "update", "Failed to update flashcard set", func(ctx context.Context) (*pkgapi.FlashcardSet, error) {
		return s.api.Update(ctx, setID, req)
	})
}

// Delete removes the set locally after the server confirms.
func (s *FlashcardStore) Delete(ctx context.Context, setID string) error {
	return s.remove(ctx, setID, "delete", "Failed to delete flashcard set", func(ctx context.Context) error {
		_, err := s.api.Delete(ctx, setID)
		return err
	})
}
