package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-account-service/internal/domain/user"
	"user-account-service/internal/usecase/validation"
	pkgerrors "user-account-service/pkg/errors"
	"user-account-service/pkg/security"
)

// entityMessages are the messages reported for invalid user records.
var entityMessages = validation.Messages{
	"Name.notblank":     "El nombre no puede estar vacío",
	"Email.notblank":    "El correo no puede estar vacío",
	"Email.email":       "El correo debe ser válido",
	"Password.notblank": "La contraseña no puede estar vacía",
	"Role.notblank":     "El rol no puede estar vacío",
	"Address.max":       "La dirección no puede superar los 255 caracteres",
	"Phone.max":         "El teléfono no puede superar los 20 caracteres",
}

// Usecase implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Usecase struct {
	repo      domain.Repository       // Repository for data access
	passwords security.PasswordHasher // Turns submitted passwords into stored ones
	log       *zap.Logger             // Logger for structured logging
	validate  *validator.Validate     // Validator for request validation
	now       func() time.Time
}

// New creates a new instance of Usecase with the provided repository, password hasher and logger.
func New(r domain.Repository, passwords security.PasswordHasher, log *zap.Logger) *Usecase {
	return &Usecase{
		repo:      r,
		passwords: passwords,
		log:       log,
		validate:  validation.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListUsers returns every user ordered by ID.
func (uc *Usecase) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (uc *Usecase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			uc.log.Debug("user not found", zap.Int64("id", id))
		} else {
			uc.log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	return u, nil
}

// CreateUser validates and persists a user record as given. The creation
// timestamp is stamped here; the ID comes from the store.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*domain.User, error) {
	uc.log.Info("creating user", zap.String("email", in.Email), zap.String("role", in.Role))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, validation.FirstViolation(err, entityMessages)
	}

	stored, err := uc.passwords.Hash(in.Password)
	if err != nil {
		return nil, pkgerrors.NewValidationError("Password", err.Error())
	}

	u := &domain.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  stored,
		Role:      in.Role,
		CreatedAt: uc.now(),
		Address:   in.Address,
		Phone:     in.Phone,
	}

	id, err := uc.repo.Create(ctx, u)
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	u.ID = id

	return u, nil
}

// UpdateUser merges the present fields of the request onto the stored user.
// ID and CreatedAt are never changed.
func (uc *Usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*domain.User, error) {
	uc.log.Info("updating user", zap.Int64("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, validation.FirstViolation(err, entityMessages)
	}

	existing, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if isNotFound(err) {
			uc.log.Warn("update target not found", zap.Int64("id", in.ID))
		} else {
			uc.log.Error("failed to load user for update", zap.Int64("id", in.ID), zap.Error(err))
		}
		return nil, err
	}

	if in.Name != nil {
		existing.Name = *in.Name
	}
	if in.Email != nil {
		existing.Email = *in.Email
	}
	if in.Password != nil {
		stored, err := uc.passwords.Hash(*in.Password)
		if err != nil {
			return nil, pkgerrors.NewValidationError("Password", err.Error())
		}
		existing.Password = stored
	}
	if in.Role != nil {
		existing.Role = *in.Role
	}
	if in.Address != nil {
		existing.Address = *in.Address
	}
	if in.Phone != nil {
		existing.Phone = *in.Phone
	}

	if err := uc.repo.Update(ctx, existing); err != nil {
		uc.log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return existing, nil
}

// DeleteUser deletes a user by ID. Deleting an unknown ID succeeds.
func (uc *Usecase) DeleteUser(ctx context.Context, id int64) error {
	uc.log.Info("deleting user", zap.Int64("id", id))

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *pkgerrors.NotFoundError
	return errors.As(err, &nf)
}
