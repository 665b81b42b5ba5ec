// Package session holds the server-side authentication session.
package session

import (
	"context"
	"time"

	"user-account-service/internal/domain/user"
)

// Session binds one client to the user that authenticated on it.
type Session struct {
	ID        string    `json:"id"`
	User      user.User `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions. Expiry is owned by the implementation.
type Store interface {
	// Save creates or replaces the session under s.ID.
	Save(ctx context.Context, s *Session) error

	// Get returns the session, or nil when it does not exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error
}
