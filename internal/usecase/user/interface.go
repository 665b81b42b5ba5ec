package user

import (
	"context"

	domain "user-account-service/internal/domain/user"
)

// UserUsecase defines the interface for user business logic operations.
type UserUsecase interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, in CreateUserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
