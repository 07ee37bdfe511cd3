package service

import (
	"context"
	"net/http"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// CourseService wraps /courses.
type CourseService struct {
	client Doer
}

// NewCourseService creates the course endpoints client.
func NewCourseService(client Doer) *CourseService {
	return &CourseService{client: client}
}

// Create отправляет POST /courses.
func (s *CourseService) Create(ctx context.Context, req pkgapi.CourseRequest) (*pkgapi.Course, error) {
	return send[pkgapi.Course](ctx, s.client, http.MethodPost, "/courses", nil, req)
}

// Get returns the course with its modules, GET /courses/{id}.
func (s *CourseService) Get(ctx context.Context, id string) (*pkgapi.Course, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.Course](ctx, s.client, "/courses/"+escape(id), nil)
}

// List returns all courses.
func (s *CourseService) List(ctx context.Context) ([]pkgapi.Course, error) {
	return fetchList[pkgapi.Course](ctx, s.client, "/courses", nil)
}

// Update replaces the course, PUT /courses/{id}.
func (s *CourseService) Update(ctx context.Context, id string, req pkgapi.CourseRequest) (*pkgapi.Course, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return send[pkgapi.Course](ctx, s.client, http.MethodPut, "/courses/"+escape(id), nil, req)
}

// Delete удаляет курс и возвращает сообщение сервера.
func (s *CourseService) Delete(ctx context.Context, id string) (*pkgapi.MessageResponse, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return remove(ctx, s.client, "/courses/"+escape(id))
}

// LessonService wraps lesson endpoints. Creation and single fetch are nested under
// the course module; listing, update and delete are not.
type LessonService struct {
	client Doer
}

// NewLessonService creates the lesson endpoints client.
func NewLessonService(client Doer) *LessonService {
	return &LessonService{client: client}
}

// Create adds a lesson to a course module.
func (s *LessonService) Create(ctx context.Context, courseID, moduleID string, req pkgapi.LessonRequest) (*pkgapi.Lesson, error) {
	if err := required("courseId", courseID, "moduleId", moduleID); err != nil {
		return nil, err
	}
	path := "/courses/" + escape(courseID) + "/modules/" + escape(moduleID) + "/lessons"
	return send[pkgapi.Lesson](ctx, s.client, http.MethodPost, path, nil, req)
}

// Get запрашивает урок по полному пути курс/модуль/урок.
func (s *LessonService) Get(ctx context.Context, courseID, moduleID, lessonID string) (*pkgapi.Lesson, error) {
	if err := required("courseId", courseID, "moduleId", moduleID, "lessonId", lessonID); err != nil {
		return nil, err
	}
	path := "/courses/" + escape(courseID) + "/modules/" + escape(moduleID) + "/lessons/" + escape(lessonID)
	return fetchOne[pkgapi.Lesson](ctx, s.client, path, nil)
}

// ListByModule returns the lessons of a module.
func (s *LessonService) ListByModule(ctx context.Context, moduleID string) ([]pkgapi.Lesson, error) {
	if err := required("moduleId", moduleID); err != nil {
		return nil, err
	}
	return fetchList[pkgapi.Lesson](ctx, s.client, "/modules/"+escape(moduleID)+"/lessons", nil)
}

// Update replaces the lesson, PUT /lessons/{id}.
func (s *LessonService) Update(ctx context.Context, lessonID string, req pkgapi.LessonRequest) (*pkgapi.Lesson, error) {
	if err := required("lessonId", lessonID); err != nil {
		return nil, err
	}
	return send[pkgapi.Lesson](ctx, s.client, http.MethodPut, "/lessons/"+escape(lessonID), nil, req)
}

// Delete удаляет урок.
func (s *LessonService) Delete(ctx context.Context, lessonID string) (*pkgapi.MessageResponse, error) {
	if err := required("lessonId", lessonID); err != nil {
		return nil, err
	}
	return remove(ctx, s.client, "/lessons/"+escape(lessonID))
}
