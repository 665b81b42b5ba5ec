package auth

import (
	domain "user-account-service/internal/domain/user"
)

// LoginRequest carries the submitted credentials and the session ID the client
// currently holds, if any.
type LoginRequest struct {
	Email     string
	Password  string
	SessionID string
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	SessionID string
	User      domain.User
	Role      string
}

// SessionState reports whether a session ID is bound to a user.
type SessionState struct {
	Authenticated bool
	User          *domain.User
}

// RegisterRequest represents a self-service sign up. Field order is
// validation order.
type RegisterRequest struct {
	Name     string `validate:"notblank"`
	Email    string `validate:"notblank,email"`
	Password string `validate:"notblank,min=6"`
}
