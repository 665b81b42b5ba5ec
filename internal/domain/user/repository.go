package user

import "context"

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., PostgreSQL, SQLite, a cache-aside wrapper) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *User) (int64, error)          // Insert a new user, returns the generated ID
	GetByID(ctx context.Context, id int64) (*User, error)        // Retrieve by ID, NotFoundError when absent
	GetByEmail(ctx context.Context, email string) (*User, error) // Retrieve by email, (nil, nil) when absent
	Update(ctx context.Context, u *User) error                   // Persist all mutable fields of an existing user
	Delete(ctx context.Context, id int64) error                  // Delete by ID, no-op when absent
	List(ctx context.Context) ([]User, error)                    // All users ordered by ID
}
