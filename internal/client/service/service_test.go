package service

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/nihongo/internal/client/api"
	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// recordingDoer отвечает успехом и запоминает запрос
func recordingDoer() *DoerMock {
	return &DoerMock{
		DoFunc: func(ctx context.Context, r api.Request, result any) error { return nil },
	}
}

func TestServices_RequestShapes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		call       func(s *Services) error
		wantQuery  url.Values
		wantBody   any
		name       string
		wantMethod string
		wantPath   string
	}{
		{
			name:       "courses list",
			call:       func(s *Services) error { _, err := s.Courses.List(ctx); return err },
			wantMethod: http.MethodGet, wantPath: "/courses",
		},
		{
			name: "courses update",
			call: func(s *Services) error {
				_, err := s.Courses.Update(ctx, "c1", pkgapi.CourseRequest{Title: "N5"})
				return err
			},
			wantMethod: http.MethodPut, wantPath: "/courses/c1", wantBody: pkgapi.CourseRequest{Title: "N5"},
		},
		{
			name:       "courses delete",
			call:       func(s *Services) error { _, err := s.Courses.Delete(ctx, "c1"); return err },
			wantMethod: http.MethodDelete, wantPath: "/courses/c1",
		},
		{
			name: "lesson create nested under module",
			call: func(s *Services) error {
				_, err := s.Lessons.Create(ctx, "c1", "m1", pkgapi.LessonRequest{Title: "あ"})
				return err
			},
			wantMethod: http.MethodPost, wantPath: "/courses/c1/modules/m1/lessons", wantBody: pkgapi.LessonRequest{Title: "あ"},
		},
		{
			name:       "lesson get nested",
			call:       func(s *Services) error { _, err := s.Lessons.Get(ctx, "c1", "m1", "l1"); return err },
			wantMethod: http.MethodGet, wantPath: "/courses/c1/modules/m1/lessons/l1",
		},
		{
			name:       "lessons by module",
			call:       func(s *Services) error { _, err := s.Lessons.ListByModule(ctx, "m1"); return err },
			wantMethod: http.MethodGet, wantPath: "/modules/m1/lessons",
		},
		{
			name:       "lesson delete is flat",
			call:       func(s *Services) error { _, err := s.Lessons.Delete(ctx, "l1"); return err },
			wantMethod: http.MethodDelete, wantPath: "/lessons/l1",
		},
		{
			name:       "quiz get is flat",
			call:       func(s *Services) error { _, err := s.Quizzes.Get(ctx, "q1"); return err },
			wantMethod: http.MethodGet, wantPath: "/quizzes/q1",
		},
		{
			name:       "quizzes by lesson",
			call:       func(s *Services) error { _, err := s.Quizzes.ListByLesson(ctx, "l1"); return err },
			wantMethod: http.MethodGet, wantPath: "/lessons/l1/quizzes",
		},
		{
			name:       "all quizzes",
			call:       func(s *Services) error { _, err := s.Quizzes.List(ctx); return err },
			wantMethod: http.MethodGet, wantPath: "/quizzes",
		},
		{
			name: "quiz submit",
			call: func(s *Services) error {
				_, err := s.Quizzes.Submit(ctx, pkgapi.SubmitQuizRequest{QuizID: "q1"})
				return err
			},
			wantMethod: http.MethodPost, wantPath: "/quizzes/submit", wantBody: pkgapi.SubmitQuizRequest{QuizID: "q1"},
		},
		{
			name:       "my attempts",
			call:       func(s *Services) error { _, err := s.Quizzes.MyAttempts(ctx); return err },
			wantMethod: http.MethodGet, wantPath: "/quizzes/my-quiz-attempts",
		},
		{
			name:       "attempt by id",
			call:       func(s *Services) error { _, err := s.Quizzes.Attempt(ctx, "a1"); return err },
			wantMethod: http.MethodGet, wantPath: "/quizzes/quiz-attempts/a1",
		},
		{
			name:       "flashcards by lesson",
			call:       func(s *Services) error { _, err := s.Flashcards.ListByLesson(ctx, "l1"); return err },
			wantMethod: http.MethodGet, wantPath: "/lessons/l1/flashcards",
		},
		{
			name:       "flashcard set delete",
			call:       func(s *Services) error { _, err := s.Flashcards.Delete(ctx, "f1"); return err },
			wantMethod: http.MethodDelete, wantPath: "/flashcards/f1",
		},
		{
			name: "kanji search",
			call: func(s *Services) error {
				_, err := s.Kanji.Search(ctx, pkgapi.KanjiSearchRequest{Query: "water", SearchType: "MEANING"})
				return err
			},
			wantMethod: http.MethodGet, wantPath: "/kanji/search",
			wantQuery: url.Values{"query": {"water"}, "searchType": {"MEANING"}},
		},
		{
			name:       "kanji by character is escaped",
			call:       func(s *Services) error { _, err := s.Kanji.ByCharacter(ctx, "水"); return err },
			wantMethod: http.MethodGet, wantPath: "/kanji/character/%E6%B0%B4",
		},
		{
			name:       "vocabulary list",
			call:       func(s *Services) error { _, err := s.JapaneseText.ListVocabulary(ctx); return err },
			wantMethod: http.MethodGet, wantPath: "/japanese-text/vocabulary",
		},
		{
			name:       "vocabulary lookup",
			call:       func(s *Services) error { _, err := s.JapaneseText.LookupVocabulary(ctx, "猫"); return err },
			wantMethod: http.MethodGet, wantPath: "/japanese-text/vocabulary/lookup", wantQuery: url.Values{"word": {"猫"}},
		},
		{
			name:       "mock data",
			call:       func(s *Services) error { return s.JapaneseText.PopulateMockVocabulary(ctx) },
			wantMethod: http.MethodPost, wantPath: "/japanese-text/vocabulary/mock-data",
		},
		{
			name:       "enroll",
			call:       func(s *Services) error { _, err := s.Progress.Enroll(ctx, "c1"); return err },
			wantMethod: http.MethodPost, wantPath: "/progress/enroll/c1",
		},
		{
			name: "complete lesson",
			call: func(s *Services) error {
				_, err := s.Progress.CompleteLesson(ctx, "c1", pkgapi.LessonCompletionRequest{LessonID: "l1"})
				return err
			},
			wantMethod: http.MethodPost, wantPath: "/progress/courses/c1/complete-lesson",
			wantBody: pkgapi.LessonCompletionRequest{LessonID: "l1"},
		},
		{
			name:       "progress for course",
			call:       func(s *Services) error { _, err := s.Progress.ForCourse(ctx, "c1"); return err },
			wantMethod: http.MethodGet, wantPath: "/progress/courses/c1",
		},
		{
			name:       "my progress",
			call:       func(s *Services) error { _, err := s.Progress.Mine(ctx); return err },
			wantMethod: http.MethodGet, wantPath: "/progress/my-progress",
		},
		{
			name:       "grant achievement",
			call:       func(s *Services) error { _, err := s.Achievements.Grant(ctx, "u1", "a1"); return err },
			wantMethod: http.MethodPost, wantPath: "/achievements/a1/grant-to-user/u1",
		},
		{
			name:       "check my achievements",
			call:       func(s *Services) error { _, err := s.Achievements.CheckMine(ctx); return err },
			wantMethod: http.MethodPost, wantPath: "/achievements/check-my-achievements",
		},
		{
			name:       "achievements for user",
			call:       func(s *Services) error { _, err := s.Achievements.ForUser(ctx, "u1"); return err },
			wantMethod: http.MethodGet, wantPath: "/achievements/user/u1",
		},
		{
			name:       "moderation logs",
			call:       func(s *Services) error { _, err := s.Moderation.List(ctx); return err },
			wantMethod: http.MethodGet, wantPath: "/moderation-logs",
		},
		{
			name: "start study session",
			call: func(s *Services) error {
				_, err := s.StudySessions.Start(ctx, pkgapi.StartStudySessionRequest{LessonID: "l1", ActivityType: "QUIZ"})
				return err
			},
			wantMethod: http.MethodPost, wantPath: "/study-sessions/start",
			wantQuery: url.Values{"lessonId": {"l1"}, "activityType": {"QUIZ"}},
		},
		{
			name:       "end study session",
			call:       func(s *Services) error { _, err := s.StudySessions.End(ctx, "s1"); return err },
			wantMethod: http.MethodPost, wantPath: "/study-sessions/s1/end",
		},
		{
			name:       "my study sessions",
			call:       func(s *Services) error { _, err := s.StudySessions.Mine(ctx); return err },
			wantMethod: http.MethodGet, wantPath: "/study-sessions/my-sessions",
		},
		{
			name:       "study sessions of user",
			call:       func(s *Services) error { _, err := s.StudySessions.ForUser(ctx, "u1"); return err },
			wantMethod: http.MethodGet, wantPath: "/study-sessions/user/u1",
		},
		{
			name:       "delete study session",
			call:       func(s *Services) error { return s.StudySessions.Delete(ctx, "s1") },
			wantMethod: http.MethodDelete, wantPath: "/study-sessions/s1",
		},
		{
			name:       "me",
			call:       func(s *Services) error { _, err := s.Users.Me(ctx); return err },
			wantMethod: http.MethodGet, wantPath: "/users/me",
		},
		{
			name: "update user",
			call: func(s *Services) error {
				_, err := s.Users.Update(ctx, "u1", pkgapi.UserProfileUpdateRequest{Bio: "こんにちは"})
				return err
			},
			wantMethod: http.MethodPut, wantPath: "/users/u1", wantBody: pkgapi.UserProfileUpdateRequest{Bio: "こんにちは"},
		},
		{
			name:       "users list",
			call:       func(s *Services) error { _, err := s.Users.List(ctx); return err },
			wantMethod: http.MethodGet, wantPath: "/users",
		},
		{
			name: "text search",
			call: func(s *Services) error {
				_, err := s.Search.Text(ctx, pkgapi.SearchRequest{Query: "日本", ScriptType: "KANJI"})
				return err
			},
			wantMethod: http.MethodGet, wantPath: "/search/text",
			wantQuery: url.Values{"query": {"日本"}, "scriptType": {"KANJI"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := recordingDoer()
			require.NoError(t, tt.call(New(doer)))

			calls := doer.DoCalls()
			require.Len(t, calls, 1)
			req := calls[0].R
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.False(t, req.Anonymous)
			if tt.wantQuery != nil {
				assert.Equal(t, tt.wantQuery, req.Query)
			} else {
				assert.Empty(t, req.Query)
			}
			assert.Equal(t, tt.wantBody, req.Body)
		})
	}
}

func TestServices_MissingParamFailsBeforeSending(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		call  func(s *Services) error
		name  string
		param string
	}{
		{name: "course get", param: "id", call: func(s *Services) error { _, err := s.Courses.Get(ctx, ""); return err }},
		{name: "lesson get", param: "moduleId", call: func(s *Services) error { _, err := s.Lessons.Get(ctx, "c1", "", "l1"); return err }},
		{name: "quiz delete", param: "quizId", call: func(s *Services) error { _, err := s.Quizzes.Delete(ctx, ""); return err }},
		{name: "kanji char", param: "kanjiCharacter", call: func(s *Services) error { _, err := s.Kanji.ByCharacter(ctx, ""); return err }},
		{name: "furigana", param: "text", call: func(s *Services) error { _, err := s.JapaneseText.Furigana(ctx, ""); return err }},
		{name: "enroll", param: "courseId", call: func(s *Services) error { _, err := s.Progress.Enroll(ctx, ""); return err }},
		{name: "grant", param: "achievementId", call: func(s *Services) error { _, err := s.Achievements.Grant(ctx, "u1", ""); return err }},
		{name: "end session", param: "id", call: func(s *Services) error { _, err := s.StudySessions.End(ctx, ""); return err }},
		{name: "user delete", param: "id", call: func(s *Services) error { _, err := s.Users.Delete(ctx, ""); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := recordingDoer()
			err := tt.call(New(doer))

			require.ErrorIs(t, err, ErrMissingParam)
			assert.Contains(t, err.Error(), tt.param)
			assert.Empty(t, doer.DoCalls())
		})
	}
}

func TestServices_InvalidBodyFailsBeforeSending(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		call func(s *Services) error
		name string
	}{
		{name: "submit without quiz id", call: func(s *Services) error {
			_, err := s.Quizzes.Submit(ctx, pkgapi.SubmitQuizRequest{})
			return err
		}},
		{name: "submit answer without question", call: func(s *Services) error {
			_, err := s.Quizzes.Submit(ctx, pkgapi.SubmitQuizRequest{QuizID: "q1", Answers: []pkgapi.UserAnswer{{}}})
			return err
		}},
		{name: "complete without lesson", call: func(s *Services) error {
			_, err := s.Progress.CompleteLesson(ctx, "c1", pkgapi.LessonCompletionRequest{})
			return err
		}},
		{name: "session without activity", call: func(s *Services) error {
			_, err := s.StudySessions.Start(ctx, pkgapi.StartStudySessionRequest{LessonID: "l1"})
			return err
		}},
		{name: "profile with bad email", call: func(s *Services) error {
			_, err := s.Users.Update(ctx, "u1", pkgapi.UserProfileUpdateRequest{Email: "not-an-email"})
			return err
		}},
		{name: "login with bad email", call: func(s *Services) error {
			_, err := s.Auth.Login(ctx, "nope", "pw")
			return err
		}},
		{name: "register without password", call: func(s *Services) error {
			_, err := s.Auth.Register(ctx, "taro", "taro@example.com", "")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := recordingDoer()
			err := tt.call(New(doer))

			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Empty(t, doer.DoCalls())
		})
	}
}

func TestAuthService_IsAnonymous(t *testing.T) {
	doer := &DoerMock{
		DoFunc: func(ctx context.Context, r api.Request, result any) error {
			resp := result.(*pkgapi.AuthResponse)
			resp.Token = "jwt"
			resp.ID = "u1"
			return nil
		},
	}

	resp, err := NewAuthService(doer).Login(context.Background(), "hanako@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.Token)

	calls := doer.DoCalls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].R.Anonymous)
	assert.Equal(t, "/auth/login", calls[0].R.Path)
	assert.Equal(t, pkgapi.LoginRequest{Email: "hanako@example.com", Password: "pw"}, calls[0].R.Body)
}

func TestRequired_PanicsOnOddArgs(t *testing.T) {
	assert.Panics(t, func() { _ = required("id") })
}
