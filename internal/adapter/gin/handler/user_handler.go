package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account-service/internal/usecase/auth"
	"user-account-service/internal/usecase/user"
	"user-account-service/pkg/logger"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc     user.UserUsecase
	auth   auth.AuthUsecase
	cookie CookieConfig
	log    *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, authUC auth.AuthUsecase, cookie CookieConfig, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		auth:   authUC,
		cookie: cookie,
		log:    log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// UpdateUserRequest represents the HTTP request body for updating a user.
// Omitted fields keep their stored value.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
}

func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.log.Warn("Invalid user ID", zap.String("id", idStr), zap.Error(err))
		badRequest(c, "User ID must be a valid number")
		return 0, false
	}
	return id, true
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = toUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	u, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid create user request", zap.Error(err))
		badRequest(c, "Invalid request body")
		return
	}

	u, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid update user request", zap.Error(err))
		badRequest(c, "Invalid request body")
		return
	}

	u, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

// DeleteUser handles DELETE /api/users/:id. The admin gate runs before it.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Info("user deleted", zap.Int64("id", id))
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.auth.CurrentUser(c.Request.Context(), h.cookie.SessionID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}
