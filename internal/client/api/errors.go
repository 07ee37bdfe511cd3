package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrUnauthorized matches (errors.Is) every 401 response.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx response from the server.
type Error struct {
	Message    string // поле message (или error) из тела ответа, если есть
	Body       []byte
	StatusCode int
}

func newError(status int, body []byte) *Error {
	return &Error{
		StatusCode: status,
		Message:    payloadMessage(body),
		Body:       body,
	}
}

// payloadMessage достает человекочитаемое сообщение из тела ответа с ошибкой
func payloadMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, field := range []string{"message", "error"} {
		if v := gjson.GetBytes(body, field); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return v.Str
		}
	}
	return ""
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Message returns the text a user should see for err: the server-supplied message when
// there is one, otherwise the error text, otherwise fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
