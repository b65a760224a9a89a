package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/animevault/animevault-server/internal/domain"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/session/login",
		Summary:     "Sign in",
		Description: "Stores the current user locally. There is no password; the session is device-local.",
		Tags:        []string{"Session"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/session/logout",
		Summary:     "Sign out",
		Tags:        []string{"Session"},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "currentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/session/me",
		Summary:     "Current user",
		Tags:        []string{"Session"},
	}, s.handleCurrentUser)
}

// LoginRequest is the request body for signing in.
type LoginRequest struct {
	Username string `json:"username" validate:"required" doc:"Display name, 1-64 characters"`
}

// LoginInput wraps the login request.
type LoginInput struct {
	Body LoginRequest
}

// UserOutput wraps the signed-in user.
type UserOutput struct {
	Body domain.User
}

// LogoutOutput confirms sign out.
type LogoutOutput struct {
	Body struct {
		LoggedOut bool `json:"logged_out"`
	}
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*UserOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, toAPIError(err)
	}

	user, err := s.services.Session.Login(ctx, input.Body.Username)
	if err != nil {
		return nil, s.storeError("login", err)
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
	if err := s.services.Session.Logout(ctx); err != nil {
		return nil, s.storeError("logout", err)
	}
	resp := &LogoutOutput{}
	resp.Body.LoggedOut = true
	return resp, nil
}

func (s *Server) handleCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	user, err := s.services.Session.CurrentUser(ctx)
	if err != nil {
		return nil, s.storeError("current user", err)
	}
	return &UserOutput{Body: user}, nil
}
