// Package domain defines the user entity that owns API keys and job applications.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/jobtracker/internal/errors"
)

// User represents a registered user.
type User struct {
	ID        uuid.UUID
	Email     string  // Unique, stored lowercased and trimmed
	FullName  *string // Optional, at most 255 chars
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserInput contains the parameters for registering a user.
type CreateUserInput struct {
	Email    string
	FullName *string
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "Email already exists")
)

// NormalizeEmail returns the canonical stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
