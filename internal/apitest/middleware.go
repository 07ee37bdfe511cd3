package apitest

import (
	"context"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/iudanet/nihongo/internal/client/api"
	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

type ctxKey int

const userKey ctxKey = iota

// recovery отвечает 500 вместо обрыва соединения при панике в обработчике
func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("Panic recovered", "error", err, "path", r.URL.Path, "stack", string(debug.Stack()))
				writeError(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(api.RequestIDHeader),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// canned отдает заранее заданную ошибку для FailNext
func (s *Server) canned(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		s.mu.Lock()
		o, ok := s.overrides[key]
		delete(s.overrides, key)
		s.mu.Unlock()

		if ok {
			w.WriteHeader(o.status)
			_, _ = w.Write([]byte(o.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate проверяет Bearer токен и кладет пользователя в контекст
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "Full authentication is required to access this resource")
			return
		}

		s.mu.Lock()
		userID, ok := s.tokens[parts[1]]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, ok := s.users.get(userID)
		if !ok {
			writeError(w, http.StatusUnauthorized, "User no longer exists")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole is mounted on admin-only routes.
func requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(currentUser(r).Roles, role) {
				writeError(w, http.StatusForbidden, "Access Denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func currentUser(r *http.Request) pkgapi.User {
	u, _ := r.Context().Value(userKey).(pkgapi.User)
	return u
}
