package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account-service/internal/usecase/auth"
)

// AuthHandler serves the session-based auth endpoints.
type AuthHandler struct {
	uc     auth.AuthUsecase
	cookie CookieConfig
	log    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc auth.AuthUsecase, cookie CookieConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		cookie: cookie,
		log:    log,
	}
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// SessionUser is the user summary reported by check-session.
type SessionUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CheckSessionResponse is the body of GET /api/auth/check-session.
type CheckSessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *SessionUser `json:"user,omitempty"`
	Message       string       `json:"message,omitempty"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}

	resp, err := h.uc.Login(c.Request.Context(), auth.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		SessionID: h.cookie.SessionID(c),
	})
	if err != nil {
		h.writeMessage(c, err)
		return
	}

	h.cookie.Set(c, resp.SessionID)
	c.JSON(http.StatusOK, LoginResponse{Message: auth.MsgLoginSuccess, Role: resp.Role})
}

// CheckSession handles GET /api/auth/check-session
func (h *AuthHandler) CheckSession(c *gin.Context) {
	state, err := h.uc.CheckSession(c.Request.Context(), h.cookie.SessionID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if !state.Authenticated {
		c.JSON(http.StatusUnauthorized, CheckSessionResponse{
			Authenticated: false,
			Message:       auth.MsgNoActiveSession,
		})
		return
	}

	c.JSON(http.StatusOK, CheckSessionResponse{
		Authenticated: true,
		User: &SessionUser{
			ID:    state.User.ID,
			Name:  state.User.Name,
			Email: state.User.Email,
			Role:  state.User.Role,
		},
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	_ = h.uc.Logout(c.Request.Context(), h.cookie.SessionID(c))
	h.cookie.Clear(c)
	c.JSON(http.StatusOK, MessageResponse{Message: auth.MsgLoggedOut})
}

// Register handles POST /api/auth/register. Every rejection, including an
// email already in use, is a 400.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}

	_, err := h.uc.Register(c.Request.Context(), auth.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if auth.IsConflict(err) {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: auth.MsgEmailTaken})
			return
		}
		h.writeMessage(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: auth.MsgRegistered})
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid forgot password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}

	if err := h.uc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.writeMessage(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: auth.MsgResetMailSent})
}

// writeMessage renders auth failures as a bare {message} body.
func (h *AuthHandler) writeMessage(c *gin.Context, err error) {
	status, msg := resolveError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("auth request failed", zap.String("route", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, MessageResponse{Message: msg})
}
