package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserEmail    = errors.New("user email cannot be empty")
	ErrEmptyUserPassword = errors.New("user password hash cannot be empty")
)

// User represents an account that owns tasks and task groups.
// HashedPassword holds the bcrypt hash; the plaintext password never
// reaches the domain layer.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and password hash.
// It generates a new UUID for the user ID and sets the timestamps.
// Returns an error if validation fails.
func NewUser(email, hashedPassword string) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	email := strings.TrimSpace(u.Email)
	if email == "" {
		return ErrEmptyUserEmail
	}

	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}

	if u.HashedPassword == "" {
		return ErrEmptyUserPassword
	}

	return nil
}
