// Package apitest runs an in-memory imitation of the learning-platform REST API for tests.
// It speaks the same paths, status codes and payload shapes as the real server, keeps
// everything in memory and records every request it receives.
package apitest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// Account is a user the fake server accepts at /auth/login.
type Account struct {
	Password string
	User     pkgapi.User
}

// Recorded is one request as the server saw it.
type Recorded struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	RequestID     string
}

type override struct {
	body   string
	status int
}

// Server is the fake backend. All exported methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	logger    *slog.Logger
	accounts  map[string]*Account // by email
	tokens    map[string]string   // token -> user id
	overrides map[string]override // "METHOD /path" -> canned failure

	courses       *resource[pkgapi.Course]
	lessons       *resource[pkgapi.Lesson]
	quizzes       *resource[pkgapi.Quiz]
	attempts      *resource[pkgapi.QuizAttempt]
	flashcards    *resource[pkgapi.FlashcardSet]
	kanji         *resource[pkgapi.KanjiEntry]
	vocabulary    *resource[pkgapi.VocabularyEntry]
	progress      *resource[pkgapi.Progress]
	achievements  *resource[pkgapi.Achievement]
	granted       map[string][]string // user id -> achievement ids
	moderation    *resource[pkgapi.ModerationLog]
	studySessions *resource[pkgapi.StudySession]
	users         *resource[pkgapi.User]

	requests []Recorded
	mu       sync.Mutex
}

// New starts a fake server and stops it when the test ends.
// The API root is srv.URL + "/api".
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		logger:        slog.New(slog.DiscardHandler),
		accounts:      map[string]*Account{},
		tokens:        map[string]string{},
		overrides:     map[string]override{},
		granted:       map[string][]string{},
		courses:       newResource("course", func(v *pkgapi.Course) *string { return &v.ID }),
		lessons:       newResource("lesson", func(v *pkgapi.Lesson) *string { return &v.ID }),
		quizzes:       newResource("quiz", func(v *pkgapi.Quiz) *string { return &v.ID }),
		attempts:      newResource("attempt", func(v *pkgapi.QuizAttempt) *string { return &v.ID }),
		flashcards:    newResource("set", func(v *pkgapi.FlashcardSet) *string { return &v.ID }),
		kanji:         newResource("kanji", func(v *pkgapi.KanjiEntry) *string { return &v.ID }),
		vocabulary:    newResource("vocab", func(v *pkgapi.VocabularyEntry) *string { return &v.ID }),
		progress:      newResource("progress", func(v *pkgapi.Progress) *string { return &v.ID }),
		achievements:  newResource("achievement", func(v *pkgapi.Achievement) *string { return &v.ID }),
		moderation:    newResource("modlog", func(v *pkgapi.ModerationLog) *string { return &v.ID }),
		studySessions: newResource("session", func(v *pkgapi.StudySession) *string { return &v.ID }),
		users:         newResource("user", func(v *pkgapi.User) *string { return &v.ID }),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// APIURL returns the base URL clients should be configured with.
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

// AddAccount registers a user that can log in and returns the stored profile.
func (s *Server) AddAccount(username, email, password string, roles ...string) pkgapi.User {
	u := s.users.add(pkgapi.User{Username: username, Email: email, Roles: roles})
	s.mu.Lock()
	s.accounts[email] = &Account{Password: password, User: u}
	s.mu.Unlock()
	return u
}

// IssueToken returns a valid bearer token for an existing user without a login round-trip.
func (s *Server) IssueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := "token-" + userID + "-" + strconv.Itoa(len(s.tokens)+1)
	s.tokens[token] = userID
	return token
}

// RevokeTokens invalidates every issued token; the next authenticated call gets 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]string{}
}

// FailNext makes the next request to method+path answer with status and a JSON body
// carrying message. The override is consumed by that request.
func (s *Server) FailNext(method, path string, status int, message string) {
	body, _ := json.Marshal(pkgapi.ErrorResponse{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	})
	s.FailNextRaw(method, path, status, string(body))
}

// FailNextRaw is FailNext with a verbatim body.
func (s *Server) FailNextRaw(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = override{status: status, body: body}
}

// Requests returns everything received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request or the zero value.
func (s *Server) LastRequest() Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Recorded{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recovery, s.record, s.canned)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/register", s.register)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			s.mountContent(r)
			s.mountJapanese(r)
			s.mountLearner(r)
			s.mountAdmin(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "No endpoint "+r.Method+" "+r.URL.Path)
	})
	return r
}
