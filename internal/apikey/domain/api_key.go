// Package domain defines API key credentials and the authentication errors they produce.
//
// A credential is presented as a bearer token "ak_<prefix>.<secret>". The prefix is stored in
// clear and indexed; the secret is stored encrypted so that it can be recovered to verify
// HMAC request signatures.
package domain

import (
	"time"

	"github.com/google/uuid"

	userDomain "github.com/allisson/jobtracker/internal/user/domain"
)

// APIKey represents a credential issued to a user.
type APIKey struct {
	ID         uuid.UUID  // Unique identifier (UUIDv7)
	UserID     uuid.UUID  // Owner
	Name       string     // Human-readable label, 1..100 chars
	Prefix     string     // Public lookup key, unique across all credentials
	SecretEnc  string     //nolint:gosec // encrypted secret, never the plaintext
	IsActive   bool       // False once revoked; never flips back
	CreatedAt  time.Time  //
	LastUsedAt *time.Time // Best-effort timestamp of the last successful authentication
}

// Revoke deactivates the key. It reports whether the state changed.
func (k *APIKey) Revoke() bool {
	if !k.IsActive {
		return false
	}
	k.IsActive = false
	return true
}

// CreateAPIKeyInput contains the parameters for issuing a new API key.
type CreateAPIKeyInput struct {
	UserID uuid.UUID
	Name   string
}

// CreateAPIKeyOutput contains the stored key and the plaintext token.
// SECURITY: Token is only returned once and must never be logged.
type CreateAPIKeyOutput struct {
	APIKey *APIKey
	Token  string
}

// Principal is the identity established by a successful authentication.
type Principal struct {
	User   *userDomain.User
	APIKey *APIKey
	Secret string //nolint:gosec // plaintext secret, used only to verify request signatures
}
