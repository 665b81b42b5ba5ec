package auth

import (
	"context"

	domain "user-account-service/internal/domain/user"
)

// AuthUsecase defines the authentication flow. Session IDs are passed in by the
// transport; the use case never reads cookies itself.
type AuthUsecase interface {
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
	CheckSession(ctx context.Context, sessionID string) (SessionState, error)
	Logout(ctx context.Context, sessionID string) error
	Register(ctx context.Context, in RegisterRequest) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) error
	CurrentUser(ctx context.Context, sessionID string) (*domain.User, error)
}
