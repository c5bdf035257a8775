// Package auth provides password hashing and JWT issuance for the API's
// authentication layer.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch indicates the supplied password does not match
// the stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordVerifier abstracts password hashing and comparison so tests
// can substitute a cheap implementation.
type PasswordVerifier interface {
	// Hash produces a storable hash of the given plaintext password.
	Hash(password string) (string, error)

	// Compare checks a plaintext password against a stored hash.
	// Returns ErrPasswordMismatch when they do not match.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier with bcrypt.
type BcryptVerifier struct {
	cost int
}

// NewBcryptVerifier creates a BcryptVerifier. A cost of zero selects
// bcrypt's default cost.
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptVerifier{cost: cost}
}

// Hash implements PasswordVerifier.
func (v *BcryptVerifier) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare implements PasswordVerifier.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}
