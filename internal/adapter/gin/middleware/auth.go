package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "user-account-service/internal/domain/user"
	pkgerrors "user-account-service/pkg/errors"
	"user-account-service/pkg/logger"
)

// CurrentUserKey is the gin context key holding the authenticated *user.User.
const CurrentUserKey = "currentUser"

// SessionResolver returns the user bound to a session ID.
type SessionResolver interface {
	CurrentUser(ctx context.Context, sessionID string) (*domain.User, error)
}

// RequireRole lets the request through only when the session cookie resolves
// to a user holding role. A missing session and a wrong role both get 403.
func RequireRole(resolver SessionResolver, cookieName, role string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(cookieName)

		u, err := resolver.CurrentUser(c.Request.Context(), sessionID)
		if err != nil {
			var ue *pkgerrors.UnauthorizedError
			if !errors.As(err, &ue) {
				logger.WithContext(c.Request.Context(), log).Error("failed to resolve session", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "An internal error occurred",
				})
				return
			}
		}

		if u == nil || u.Role != role {
			logger.WithContext(c.Request.Context(), log).Warn("access denied",
				zap.String("path", c.Request.URL.Path),
				zap.String("required_role", role),
				zap.Bool("authenticated", u != nil),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Acceso prohibido",
			})
			return
		}

		c.Set(CurrentUserKey, u)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), strconv.FormatInt(u.ID, 10)))
		c.Next()
	}
}

// RequireAdmin is RequireRole for ADMIN.
func RequireAdmin(resolver SessionResolver, cookieName string, log *zap.Logger) gin.HandlerFunc {
	return RequireRole(resolver, cookieName, domain.RoleAdmin, log)
}
