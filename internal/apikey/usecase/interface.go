// Package usecase defines business logic interfaces for API key issuance and authentication.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	userDomain "github.com/allisson/jobtracker/internal/user/domain"
)

// APIKeyRepository defines persistence operations for API keys.
// Implementations must support transaction-aware operations via context propagation.
type APIKeyRepository interface {
	// Create stores a new key. Returns ErrAPIKeyPrefixConflict when the prefix is taken.
	Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error

	// FindActiveByPrefix returns the active key with prefix. Missing and revoked keys both
	// return ErrAPIKeyNotFound.
	FindActiveByPrefix(ctx context.Context, prefix string) (*apikeyDomain.APIKey, error)

	// ListByUserID returns every key owned by userID, newest first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*apikeyDomain.APIKey, error)

	// Deactivate sets is_active to false. It reports whether an active key was changed.
	Deactivate(ctx context.Context, keyID uuid.UUID) (bool, error)

	// TouchLastUsed records a successful authentication time.
	TouchLastUsed(ctx context.Context, keyID uuid.UUID, at time.Time) error
}

// UserRepository is the owner lookup needed by this package.
type UserRepository interface {
	// GetByID returns ErrUserNotFound if the user doesn't exist.
	GetByID(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)
}

// APIKeyUseCase defines business logic operations for managing API keys.
type APIKeyUseCase interface {
	// Create issues a new key for an existing user. The plaintext token is only returned here.
	//
	// Returns ErrUserNotFound if the user doesn't exist.
	Create(
		ctx context.Context,
		input *apikeyDomain.CreateAPIKeyInput,
	) (*apikeyDomain.CreateAPIKeyOutput, error)

	// ListByUser returns the user's keys without secrets, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*apikeyDomain.APIKey, error)

	// Revoke deactivates a key. Unknown and already revoked keys are not an error.
	Revoke(ctx context.Context, keyID uuid.UUID) error
}

// Authenticator resolves a bearer token into a Principal.
type Authenticator interface {
	// Authenticate parses, looks up, decrypts and compares the token. Every failure wraps
	// ErrUnauthorized; domain.FailureReason tells them apart.
	Authenticate(ctx context.Context, token string) (*apikeyDomain.Principal, error)
}
