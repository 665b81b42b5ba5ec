package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a submitted password into its stored form and checks
// a submitted password against a stored one.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(stored, plain string) bool
}

// PlainTextHasher stores passwords as given and compares them by exact string
// equality. It keeps parity with records written before hashing existed.
// Stored secrets are readable by anyone with database access.
type PlainTextHasher struct{}

// Hash returns the password unchanged.
func (PlainTextHasher) Hash(plain string) (string, error) {
	return plain, nil
}

// Verify reports whether stored and plain are identical.
func (PlainTextHasher) Verify(stored, plain string) bool {
	return stored == plain
}

// BcryptHasher stores salted bcrypt hashes.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher creates a BcryptHasher, falling back to bcrypt.DefaultCost
// when cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

// Hash returns the bcrypt hash of plain.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("password too long: %w", err)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored bcrypt hash.
func (h *BcryptHasher) Verify(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// NewPasswordHasher picks the hasher selected by configuration.
func NewPasswordHasher(hashing bool, cost int) PasswordHasher {
	if hashing {
		return NewBcryptHasher(cost)
	}
	return PlainTextHasher{}
}
