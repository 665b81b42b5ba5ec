package user

import "time"

// Roles recognised by the service.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a user account in the system.
type User struct {
	ID        int64     // ID is the server-assigned identifier, immutable once set
	Name      string    // Name is the display name of the user
	Email     string    // Email is the lookup key used for login
	Password  string    // Password is the stored credential (see security.PasswordHasher)
	Role      string    // Role is USER or ADMIN
	CreatedAt time.Time // CreatedAt is set once when the record is created
	Address   string    // Address is optional
	Phone     string    // Phone is optional
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
