package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// resource is an ordered in-memory table with string ids.
type resource[T any] struct {
	id     func(*T) *string
	prefix string
	items  []T
	next   int
	mu     sync.Mutex
}

func newResource[T any](prefix string, id func(*T) *string) *resource[T] {
	return &resource[T]{prefix: prefix, id: id}
}

// add assigns an id when v has none and appends it.
func (r *resource[T]) add(v T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	if *r.id(&v) == "" {
		r.next++
		*r.id(&v) = r.prefix + "-" + strconv.Itoa(r.next)
	}
	r.items = append(r.items, v)
	return v
}

func (r *resource[T]) all() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

func (r *resource[T]) filter(keep func(T) bool) []T {
	out := []T{}
	for _, v := range r.all() {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (r *resource[T]) get(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if *r.id(&r.items[i]) == id {
			return r.items[i], true
		}
	}
	var zero T
	return zero, false
}

func (r *resource[T]) find(match func(T) bool) (T, bool) {
	for _, v := range r.all() {
		if match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// put replaces the element with v's id.
func (r *resource[T]) put(v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if *r.id(&r.items[i]) == *r.id(&v) {
			r.items[i] = v
			return true
		}
	}
	return false
}

func (r *resource[T]) delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if *r.id(&r.items[i]) == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true
		}
	}
	return false
}

// Seed helpers; tests use them to prepare server state directly.

func (s *Server) AddCourse(c pkgapi.Course) pkgapi.Course               { return s.courses.add(c) }
func (s *Server) AddLesson(l pkgapi.Lesson) pkgapi.Lesson               { return s.lessons.add(l) }
func (s *Server) AddQuiz(q pkgapi.Quiz) pkgapi.Quiz                     { return s.quizzes.add(q) }
func (s *Server) AddFlashcardSet(f pkgapi.FlashcardSet) pkgapi.FlashcardSet {
	return s.flashcards.add(f)
}
func (s *Server) AddKanji(k pkgapi.KanjiEntry) pkgapi.KanjiEntry { return s.kanji.add(k) }
func (s *Server) AddVocabulary(v pkgapi.VocabularyEntry) pkgapi.VocabularyEntry {
	return s.vocabulary.add(v)
}
func (s *Server) AddAchievement(a pkgapi.Achievement) pkgapi.Achievement { return s.achievements.add(a) }
func (s *Server) AddModerationLog(m pkgapi.ModerationLog) pkgapi.ModerationLog {
	return s.moderation.add(m)
}
func (s *Server) AddStudySession(ss pkgapi.StudySession) pkgapi.StudySession {
	return s.studySessions.add(ss)
}

// Courses returns the server-side course table.
func (s *Server) Courses() []pkgapi.Course { return s.courses.all() }

// Users returns the server-side user table.
func (s *Server) Users() []pkgapi.User { return s.users.all() }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError отвечает в формате ошибок Spring: {status, error, message}
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, pkgapi.ErrorResponse{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, pkgapi.MessageResponse{Message: message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed JSON request")
		return false
	}
	return true
}
