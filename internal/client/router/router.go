// Package router maps view paths to named routes and decides whether the current
// session may enter them.
package router

import (
	"slices"
	"strings"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// Route names.
const (
	Home            = "Home"
	Login           = "Login"
	Register        = "Register"
	Dashboard       = "Dashboard"
	CourseList      = "CourseList"
	CourseDetail    = "CourseDetail"
	LessonDetail    = "LessonDetail"
	QuizPlay        = "QuizPlay"
	FlashcardReview = "FlashcardReview"
	KanjiSearch     = "KanjiSearch"
	KanjiDetail     = "KanjiDetail"
	VocabularyList  = "VocabularyList"
	Profile         = "Profile"
	NotFound        = "NotFound"

	AdminUsers         = "AdminUsers"
	AdminCourses       = "AdminCourses"
	AdminQuizzes       = "AdminQuizzes"
	AdminFlashcards    = "AdminFlashcards"
	AdminKanji         = "AdminKanji"
	AdminVocabulary    = "AdminVocabulary"
	AdminProgress      = "AdminProgress"
	AdminAchievements  = "AdminAchievements"
	AdminModeration    = "AdminModeration"
	AdminStudySessions = "AdminStudySessions"
)

// Route is one entry of the route table.
type Route struct {
	Name         string
	Path         string
	Roles        []string
	RequiresAuth bool
}

// Viewer is what the guard needs to know about the session.
type Viewer interface {
	IsAuthenticated() bool
	Roles() []string
}

// Decision is the guard's verdict. Redirect is empty when navigation is allowed.
type Decision struct {
	Redirect string
}

// Allowed reports whether navigation proceeds to the requested route.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Routes is the application route table.
var Routes = []Route{
	{Name: Home, Path: "/"},
	{Name: Login, Path: "/login"},
	{Name: Register, Path: "/register"},
	{Name: Dashboard, Path: "/dashboard", RequiresAuth: true},
	{Name: CourseList, Path: "/courses", RequiresAuth: true},
	{Name: CourseDetail, Path: "/courses/:id", RequiresAuth: true},
	{Name: LessonDetail, Path: "/courses/:courseId/modules/:moduleId/lessons/:lessonId", RequiresAuth: true},
	{Name: QuizPlay, Path: "/lessons/:lessonId/quizzes/:quizId/play", RequiresAuth: true},
	{Name: FlashcardReview, Path: "/lessons/:lessonId/flashcards/:flashcardSetId/review", RequiresAuth: true},
	{Name: KanjiSearch, Path: "/kanji", RequiresAuth: true},
	{Name: KanjiDetail, Path: "/kanji/:id", RequiresAuth: true},
	{Name: VocabularyList, Path: "/vocabulary", RequiresAuth: true},
	{Name: Profile, Path: "/profile", RequiresAuth: true},
	admin(AdminUsers, "/admin/users"),
	admin(AdminCourses, "/admin/courses"),
	admin(AdminQuizzes, "/admin/quizzes"),
	admin(AdminFlashcards, "/admin/flashcards"),
	admin(AdminKanji, "/admin/kanji"),
	admin(AdminVocabulary, "/admin/vocabulary"),
	admin(AdminProgress, "/admin/progress"),
	admin(AdminAchievements, "/admin/achievements"),
	admin(AdminModeration, "/admin/moderation"),
	admin(AdminStudySessions, "/admin/study-sessions"),
}

func admin(name, path string) Route {
	return Route{Name: name, Path: path, RequiresAuth: true, Roles: []string{pkgapi.RoleAdmin}}
}

var notFound = Route{Name: NotFound, Path: "/:pathMatch(.*)*"}

// Guard decides whether viewer may enter target. The first matching rule wins.
func Guard(target Route, viewer Viewer) Decision {
	authenticated := viewer != nil && viewer.IsAuthenticated()

	if target.RequiresAuth && !authenticated {
		return Decision{Redirect: Login}
	}

	if len(target.Roles) > 0 {
		if !authenticated {
			return Decision{Redirect: Dashboard}
		}
		roles := viewer.Roles()
		if !slices.ContainsFunc(target.Roles, func(r string) bool { return slices.Contains(roles, r) }) {
			return Decision{Redirect: Dashboard}
		}
	}

	if (target.Name == Login || target.Name == Register) && authenticated {
		return Decision{Redirect: Dashboard}
	}

	return Decision{}
}

// Match is the outcome of Navigate.
type Match struct {
	Params    map[string]string
	Requested Route
	Route     Route
	Decision  Decision
}

// Router resolves paths against a route table.
type Router struct {
	viewer Viewer
	routes []Route
}

// New creates a router over the default route table.
func New(viewer Viewer) *Router {
	return &Router{viewer: viewer, routes: Routes}
}

// Lookup returns the route with the given name.
func (r *Router) Lookup(name string) (Route, bool) {
	if name == NotFound {
		return notFound, true
	}
	for _, rt := range r.routes {
		if rt.Name == name {
			return rt, true
		}
	}
	return Route{}, false
}

// Resolve matches path against the table without applying the guard. Unknown paths
// resolve to NotFound.
func (r *Router) Resolve(path string) (Route, map[string]string) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segs := split(path)
	for _, rt := range r.routes {
		if params, ok := matchPath(split(rt.Path), segs); ok {
			return rt, params
		}
	}
	return notFound, map[string]string{"pathMatch": strings.Join(segs, "/")}
}

// Navigate resolves path and applies the guard. On redirect Route is the redirect
// target and Requested keeps what was asked for.
func (r *Router) Navigate(path string) Match {
	requested, params := r.Resolve(path)
	decision := Guard(requested, r.viewer)

	m := Match{Requested: requested, Route: requested, Params: params, Decision: decision}
	if !decision.Allowed() {
		m.Route, _ = r.Lookup(decision.Redirect)
		m.Params = map[string]string{}
	}
	return m
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// matchPath сравнивает сегменты шаблона и пути; ":name" захватывает один сегмент
func matchPath(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if segs[i] == "" {
				return nil, false
			}
			params[name] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
