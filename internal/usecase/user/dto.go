package user

// CreateUserRequest represents the request payload for creating a new user.
// Field order is validation order: the first failing field is reported.
type CreateUserRequest struct {
	Name     string `validate:"notblank"`
	Email    string `validate:"notblank,email"`
	Password string `validate:"notblank"`
	Role     string `validate:"notblank"`
	Address  string `validate:"max=255"`
	Phone    string `validate:"max=20"`
}

// UpdateUserRequest represents a merge update. Nil fields are left untouched;
// present fields must be valid on their own.
type UpdateUserRequest struct {
	ID       int64   `validate:"-"`
	Name     *string `validate:"omitnil,notblank"`
	Email    *string `validate:"omitnil,notblank,email"`
	Password *string `validate:"omitnil,notblank"`
	Role     *string `validate:"omitnil,notblank"`
	Address  *string `validate:"omitnil,max=255"`
	Phone    *string `validate:"omitnil,max=20"`
}
