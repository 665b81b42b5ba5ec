package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-account-service/internal/domain/user"
	"user-account-service/internal/usecase/auth"
	pkgerrors "user-account-service/pkg/errors"
)

func setupAuthTest(t *testing.T) (*gin.Engine, *MockAuthUsecase) {
	gin.SetMode(gin.TestMode)
	mockAuth := new(MockAuthUsecase)
	h := NewAuthHandler(mockAuth, testCookie, zaptest.NewLogger(t))

	r := gin.New()
	g := r.Group("/api/auth")
	g.POST("/login", h.Login)
	g.GET("/check-session", h.CheckSession)
	g.POST("/logout", h.Logout)
	g.POST("/register", h.Register)
	g.POST("/forgot-password", h.ForgotPassword)
	return r, mockAuth
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie.Name {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, uc := setupAuthTest(t)
		uc.On("Login", mock.Anything, auth.LoginRequest{Email: "a@x.com", Password: "secret1", SessionID: "old"}).
			Return(&auth.LoginResponse{SessionID: "new-sid", Role: domain.RoleUser}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@x.com","password":"secret1"}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: "SESSION_ID", Value: "old"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeMessage(t, w)
		assert.Equal(t, "Login exitoso", body["message"])
		assert.Equal(t, "USER", body["role"])

		cookie := sessionCookie(w)
		require.NotNil(t, cookie)
		assert.Equal(t, "new-sid", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, 1800, cookie.MaxAge)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		r, uc := setupAuthTest(t)
		uc.On("Login", mock.Anything, mock.Anything).Return(nil, pkgerrors.NewUnauthorizedError(auth.MsgInvalidCredentials))

		w := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@x.com", "password": "bad"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, map[string]any{"message": "Credenciales incorrectas"}, decodeMessage(t, w))
		assert.Nil(t, sessionCookie(w))
	})

	t.Run("StoreFailure", func(t *testing.T) {
		r, uc := setupAuthTest(t)
		uc.On("Login", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

		w := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@x.com", "password": "x"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "redis")
	})
}

func TestCheckSession(t *testing.T) {
	t.Run("Authenticated", func(t *testing.T) {
		r, uc := setupAuthTest(t)
		uc.On("CheckSession", mock.Anything, "sid").Return(auth.SessionState{
			Authenticated: true,
			User:          &domain.User{ID: 1, Name: "John Doe", Email: "test@example.com", Role: "USER", Password: "secret"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/check-session", nil)
		req.AddCookie(&http.Cookie{Name: "SESSION_ID", Value: "sid"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeMessage(t, w)
		assert.Equal(t, true, body["authenticated"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "John Doe", user["name"])
		assert.Equal(t, "test@example.com", user["email"])
		assert.NotContains(t, user, "password")
	})

	t.Run("NoSession", func(t *testing.T) {
		r, uc := setupAuthTest(t)
		uc.On("CheckSession", mock.Anything, "").Return(auth.SessionState{}, nil)

		w := doJSON(r, http.MethodGet, "/api/auth/check-session", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeMessage(t, w)
		assert.Equal(t, false, body["authenticated"])
		assert.Equal(t, "No hay sesión activa", body["message"])
	})
}

func TestLogout(t *testing.T) {
	r, uc := setupAuthTest(t)
	uc.On("Logout", mock.Anything, "sid").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "SESSION_ID", Value: "sid"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sesión cerrada", decodeMessage(t, w)["message"])
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, uc := setupAuthTest(t)
		uc.On("Register", mock.Anything, auth.RegisterRequest{Name: "Ana", Email: "ana@x.com", Password: "secret1"}).
			Return(&domain.User{ID: 1}, nil)

		w := doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{"name": "Ana", "email": "ana@x.com", "password": "secret1"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Usuario registrado con éxito", decodeMessage(t, w)["message"])
	})

	t.Run("DuplicateEmailIsBadRequest", func(t *testing.T) {
		r, uc := setupAuthTest(t)
		uc.On("Register", mock.Anything, mock.Anything).Return(nil, pkgerrors.NewAlreadyExistsError("user", auth.MsgEmailTaken))

		w := doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{"name": "Ana", "email": "ana@x.com", "password": "secret1"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "El correo ya está registrado.", decodeMessage(t, w)["message"])
	})

	t.Run("ValidationMessageVerbatim", func(t *testing.T) {
		r, uc := setupAuthTest(t)
		uc.On("Register", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewValidationError("Password", "La contraseña debe tener al menos 6 caracteres"))

		w := doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{"name": "Ana", "email": "ana@x.com", "password": "123"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]any{"message": "La contraseña debe tener al menos 6 caracteres"}, decodeMessage(t, w))
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("Registered", func(t *testing.T) {
		r, uc := setupAuthTest(t)
		uc.On("ForgotPassword", mock.Anything, "a@x.com").Return(nil)

		w := doJSON(r, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "a@x.com"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Se ha enviado un correo para restablecer tu contraseña.", decodeMessage(t, w)["message"])
	})

	t.Run("Unknown", func(t *testing.T) {
		r, uc := setupAuthTest(t)
		uc.On("ForgotPassword", mock.Anything, "ghost@x.com").Return(pkgerrors.NewNotFoundError("user", auth.MsgEmailNotRegistered))

		w := doJSON(r, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "ghost@x.com"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "El correo no está registrado.", decodeMessage(t, w)["message"])
	})
}
