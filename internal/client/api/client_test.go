package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/api/")

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080/api", client.BaseURL())
	assert.NotNil(t, client.httpClient)
	assert.Zero(t, client.httpClient.Timeout)

	withTimeout := NewClient("http://localhost:8080/api", WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, withTimeout.httpClient.Timeout)
}

func TestClient_Do_AttachesBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/courses", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))

		_ = json.NewEncoder(w).Encode([]pkgapi.Course{{ID: "c1", Title: "Hiragana"}})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api", WithTokenSource(staticToken("token-123")))

	var courses []pkgapi.Course
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/courses"}, &courses)

	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].ID)
}

func TestClient_Do_NoTokenNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTokenSource(staticToken("")))
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/kanji"}, nil)
	require.NoError(t, err)
}

func TestClient_Do_AnonymousSkipsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req pkgapi.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.c", req.Email)

		_ = json.NewEncoder(w).Encode(pkgapi.AuthResponse{Token: "t"})
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTokenSource(staticToken("stale")))

	var resp pkgapi.AuthResponse
	err := client.Do(context.Background(), Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      pkgapi.LoginRequest{Email: "a@b.c", Password: "pw"},
		Anonymous: true,
	}, &resp)

	require.NoError(t, err)
	assert.Equal(t, "t", resp.Token)
}

func TestClient_Do_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "日本", r.URL.Query().Get("query"))
		assert.Equal(t, "ALL", r.URL.Query().Get("searchType"))
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	var out []pkgapi.KanjiEntry
	err := client.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/kanji/search",
		Query:  url.Values{"query": {"日本"}, "searchType": {"ALL"}},
	}, &out)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestClient_Do_PlainTextIntoString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("日本(にほん)"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	var reading string
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/japanese-text/furigana"}, &reading)

	require.NoError(t, err)
	assert.Equal(t, "日本(にほん)", reading)
}

// TestClient_Do_Errors проверяет обработку ошибок сервера
func TestClient_Do_Errors(t *testing.T) {
	tests := []struct {
		responseBody   string
		name           string
		expectedErrMsg string
		expectedMsg    string
		statusCode     int
	}{
		{
			name:           "Message field",
			statusCode:     http.StatusConflict,
			responseBody:   `{"message":"course already exists"}`,
			expectedErrMsg: "server error (409): course already exists",
			expectedMsg:    "course already exists",
		},
		{
			name:           "Error field",
			statusCode:     http.StatusBadRequest,
			responseBody:   `{"error":"Bad Request","status":400}`,
			expectedErrMsg: "server error (400): Bad Request",
			expectedMsg:    "Bad Request",
		},
		{
			name:           "Plain text body",
			statusCode:     http.StatusInternalServerError,
			responseBody:   "Internal Server Error",
			expectedErrMsg: "request failed with status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/courses"}, nil)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
			assert.Equal(t, tt.expectedMsg, apiErr.Message)
			assert.True(t, IsStatus(err, tt.statusCode))
		})
	}
}

func TestClient_Do_UnauthorizedInvokesHandler(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer server.Close()

	calls := 0
	client := NewClient(server.URL,
		WithTokenSource(staticToken("expired")),
		WithUnauthorizedHandler(func(ctx context.Context) { calls++ }),
	)

	var out []pkgapi.Course
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/courses"}, &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, calls)
	assert.Nil(t, out)
}

func TestClient_Do_NotUnauthorizedForOtherStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	calls := 0
	client := NewClient(server.URL, WithUnauthorizedHandler(func(ctx context.Context) { calls++ }))
	err := client.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/users/1"}, nil)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, calls)
}

func TestClient_Do_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := NewClient(serverURL)
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/courses"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL)
	err := client.Do(ctx, Request{Method: http.MethodGet, Path: "/courses"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil, "fallback"))
	assert.Equal(t, "not found", Message(&Error{StatusCode: 404, Message: "not found"}, "fallback"))
	assert.Equal(t, "request failed with status 502", Message(&Error{StatusCode: 502}, "fallback"))
	assert.Equal(t, "boom", Message(errors.New("boom"), "fallback"))
	assert.Equal(t, "fallback", Message(errors.New(""), "fallback"))
}
