package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "user-account-service/internal/domain/user"
	pkgerrors "user-account-service/pkg/errors"
	"user-account-service/pkg/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// MessageResponse is the body of auth endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the public view of a user record. The password never leaves
// the service.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		Address:   u.Address,
		Phone:     u.Phone,
	}
}

const internalErrorMessage = "An internal error occurred"

// errorCode names the class of failure for a status.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "already_exists"
	default:
		return "internal_error"
	}
}

// resolveError maps an error to its HTTP status and client-facing message.
// Errors without a public message never expose their text.
func resolveError(err error) (int, string) {
	status := http.StatusInternalServerError
	var hs pkgerrors.HTTPStatuser
	if errors.As(err, &hs) {
		status = hs.HTTPStatus()
	}

	msg := internalErrorMessage
	var pm pkgerrors.PublicMessager
	if status < http.StatusInternalServerError && errors.As(err, &pm) {
		msg = pm.PublicMessage()
	}
	return status, msg
}

// writeError converts usecase errors to appropriate HTTP responses
func writeError(c *gin.Context, log *zap.Logger, err error) {
	status, msg := resolveError(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context(), log).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(status, ErrorResponse{Error: errorCode(status), Message: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: errorCode(http.StatusBadRequest), Message: msg})
}
