package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"user-account-service/internal/adapter/metrics"
	"user-account-service/internal/domain/session"
	domain "user-account-service/internal/domain/user"
	"user-account-service/internal/usecase/validation"
	pkgerrors "user-account-service/pkg/errors"
	"user-account-service/pkg/security"
)

// Client-facing messages.
const (
	MsgLoginSuccess       = "Login exitoso"
	MsgInvalidCredentials = "Credenciales incorrectas"
	MsgNoActiveSession    = "No hay sesión activa"
	MsgLoggedOut          = "Sesión cerrada"
	MsgRegistered         = "Usuario registrado con éxito"
	MsgEmailTaken         = "El correo ya está registrado."
	MsgResetMailSent      = "Se ha enviado un correo para restablecer tu contraseña."
	MsgEmailNotRegistered = "El correo no está registrado."
)

var registerMessages = validation.Messages{
	"Name.notblank":     "El nombre es obligatorio",
	"Email.notblank":    "El correo es obligatorio",
	"Email.email":       "El correo no es válido",
	"Password.notblank": "La contraseña es obligatoria",
	"Password.min":      "La contraseña debe tener al menos 6 caracteres",
}

// Usecase implements AuthUsecase on top of the user repository and a session store.
type Usecase struct {
	users     domain.Repository
	sessions  session.Store
	passwords security.PasswordHasher
	log       *zap.Logger
	validate  *validator.Validate
	newID     func() string
	now       func() time.Time
}

// New creates the auth use case.
func New(users domain.Repository, sessions session.Store, passwords security.PasswordHasher, log *zap.Logger) *Usecase {
	return &Usecase{
		users:     users,
		sessions:  sessions,
		passwords: passwords,
		log:       log,
		validate:  validation.New(),
		newID:     uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Login authenticates by email and password and binds the user to a freshly
// minted session. Unknown email and wrong password fail identically.
func (uc *Usecase) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	u, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		uc.log.Error("failed to look up user for login", zap.Error(err))
		return nil, fmt.Errorf("login: %w", err)
	}
	if u == nil || !uc.passwords.Verify(u.Password, in.Password) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		uc.log.Info("login rejected", zap.Bool("known_email", u != nil))
		return nil, pkgerrors.NewUnauthorizedError(MsgInvalidCredentials)
	}

	// A client never keeps a session ID across a login.
	if in.SessionID != "" {
		if err := uc.sessions.Delete(ctx, in.SessionID); err != nil {
			uc.log.Warn("failed to invalidate previous session", zap.Error(err))
		}
	}

	bound := *u
	bound.Password = ""
	sess := &session.Session{
		ID:        uc.newID(),
		User:      bound,
		CreatedAt: uc.now(),
	}
	if err := uc.sessions.Save(ctx, sess); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	metrics.SessionsCreatedTotal.Inc()
	uc.log.Info("user logged in", zap.Int64("user_id", u.ID), zap.String("role", u.Role))

	return &LoginResponse{
		SessionID: sess.ID,
		User:      bound,
		Role:      u.Role,
	}, nil
}

// CheckSession reports whether sessionID is bound to a user. It has no side
// effects beyond refreshing the session expiry.
func (uc *Usecase) CheckSession(ctx context.Context, sessionID string) (SessionState, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return SessionState{}, fmt.Errorf("check session: %w", err)
	}
	if sess == nil {
		return SessionState{Authenticated: false}, nil
	}

	u := sess.User
	return SessionState{Authenticated: true, User: &u}, nil
}

// Logout drops the session. It succeeds whether or not the session exists.
func (uc *Usecase) Logout(ctx context.Context, sessionID string) error {
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		// The cookie is cleared regardless; an orphaned entry expires on its own.
		uc.log.Error("failed to delete session on logout", zap.Error(err))
	}
	return nil
}

// Register creates a USER account after field validation and an email
// uniqueness check. The check and the insert are not atomic.
func (uc *Usecase) Register(ctx context.Context, in RegisterRequest) (*domain.User, error) {
	if err := uc.validate.Struct(in); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "validation_error").Inc()
		uc.log.Warn("register validation failed", zap.Error(err))
		return nil, validation.FirstViolation(err, registerMessages)
	}

	existing, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}
	if existing != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		uc.log.Info("register rejected, email in use", zap.String("email", in.Email))
		return nil, pkgerrors.NewAlreadyExistsError("user", MsgEmailTaken)
	}

	stored, err := uc.passwords.Hash(in.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "validation_error").Inc()
		return nil, pkgerrors.NewValidationError("Password", err.Error())
	}

	u := &domain.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  stored,
		Role:      domain.RoleUser,
		CreatedAt: uc.now(),
	}
	id, err := uc.users.Create(ctx, u)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		uc.log.Error("failed to create registered user", zap.Error(err))
		return nil, fmt.Errorf("register: %w", err)
	}
	u.ID = id

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	uc.log.Info("user registered", zap.Int64("user_id", id))
	return u, nil
}

// ForgotPassword acknowledges a reset request for a registered email.
// No mail is sent and no token is stored.
func (uc *Usecase) ForgotPassword(ctx context.Context, email string) error {
	u, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("forgot_password", "error").Inc()
		return fmt.Errorf("forgot password: %w", err)
	}
	if u == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("forgot_password", "not_found").Inc()
		return pkgerrors.NewNotFoundError("user", MsgEmailNotRegistered)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("forgot_password", "success").Inc()
	uc.log.Info("password reset requested", zap.Int64("user_id", u.ID))
	return nil
}

// CurrentUser returns the user bound to sessionID.
func (uc *Usecase) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	state, err := uc.CheckSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !state.Authenticated {
		return nil, pkgerrors.NewUnauthorizedError(MsgNoActiveSession)
	}
	return state.User, nil
}

// IsConflict reports whether err is a registration email conflict.
func IsConflict(err error) bool {
	var ae *pkgerrors.AlreadyExistsError
	return errors.As(err, &ae)
}
