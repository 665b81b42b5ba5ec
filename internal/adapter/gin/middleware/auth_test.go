package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	domain "user-account-service/internal/domain/user"
	pkgerrors "user-account-service/pkg/errors"
)

type stubResolver struct {
	users map[string]*domain.User
	err   error
}

func (s stubResolver) CurrentUser(_ context.Context, sessionID string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[sessionID]; ok {
		return u, nil
	}
	return nil, pkgerrors.NewUnauthorizedError("No hay sesión activa")
}

func newGuardedRouter(t *testing.T, resolver SessionResolver) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	reached := 0
	r := gin.New()
	r.DELETE("/users/:id", RequireAdmin(resolver, "SESSION_ID", zaptest.NewLogger(t)), func(c *gin.Context) {
		reached++
		u, _ := c.Get(CurrentUserKey)
		assert.True(t, u.(*domain.User).IsAdmin())
		c.Status(http.StatusNoContent)
	})
	return r, &reached
}

func deleteWithCookie(r http.Handler, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/users/5", nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "SESSION_ID", Value: sessionID})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAdmin(t *testing.T) {
	resolver := stubResolver{users: map[string]*domain.User{
		"admin-sid": {ID: 1, Role: domain.RoleAdmin},
		"user-sid":  {ID: 2, Role: domain.RoleUser},
	}}

	t.Run("admin passes", func(t *testing.T) {
		r, reached := newGuardedRouter(t, resolver)
		w := deleteWithCookie(r, "admin-sid")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, 1, *reached)
	})

	t.Run("user role forbidden", func(t *testing.T) {
		r, reached := newGuardedRouter(t, resolver)
		w := deleteWithCookie(r, "user-sid")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, 0, *reached)
	})

	t.Run("no session forbidden", func(t *testing.T) {
		r, reached := newGuardedRouter(t, resolver)
		w := deleteWithCookie(r, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, 0, *reached)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		r, reached := newGuardedRouter(t, stubResolver{err: errors.New("redis down")})
		w := deleteWithCookie(r, "admin-sid")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, 0, *reached)
	})
}
