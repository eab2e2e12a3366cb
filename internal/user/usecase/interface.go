// Package usecase defines business logic interfaces for user operations.
package usecase

import (
	"context"

	"github.com/google/uuid"

	userDomain "github.com/allisson/jobtracker/internal/user/domain"
)

// UserRepository defines persistence operations for users.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// Create stores a new user. Returns ErrUserAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *userDomain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if not found.
	GetByID(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)

	// GetByEmail retrieves a user by normalized email. Returns ErrUserNotFound if not found.
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
}

// UserUseCase defines business logic operations for users.
type UserUseCase interface {
	// Create validates and registers a new user. The email is lowercased and trimmed
	// before the uniqueness check.
	Create(ctx context.Context, input *userDomain.CreateUserInput) (*userDomain.User, error)

	// Get retrieves a user by ID. Returns ErrUserNotFound if the user doesn't exist.
	Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)
}
