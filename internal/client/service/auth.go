package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/nihongo/internal/client/api"
	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// AuthService wraps /auth. Both calls are sent without a bearer token.
type AuthService struct {
	client Doer
}

// NewAuthService создает сервис авторизации
func NewAuthService(client Doer) *AuthService {
	return &AuthService{client: client}
}

// Login выполняет аутентификацию пользователя
func (s *AuthService) Login(ctx context.Context, email, password string) (*pkgapi.AuthResponse, error) {
	req := pkgapi.LoginRequest{Email: email, Password: password}
	if err := validBody(req); err != nil {
		return nil, err
	}

	var resp pkgapi.AuthResponse
	err := s.client.Do(ctx, api.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      req,
		Anonymous: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Register регистрирует нового пользователя
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*pkgapi.MessageResponse, error) {
	req := pkgapi.RegisterRequest{Username: username, Email: email, Password: password}
	if err := validBody(req); err != nil {
		return nil, err
	}

	var resp pkgapi.MessageResponse
	err := s.client.Do(ctx, api.Request{
		Method:    http.MethodPost,
		Path:      "/auth/register",
		Body:      req,
		Anonymous: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}
