package domain

import (
	"github.com/allisson/jobtracker/internal/errors"
)

// Authentication errors. Every one of them except ErrInvalidTimestamp collapses to the same
// 401 response; the distinction only reaches logs and metrics through FailureReason.
var (
	// ErrInvalidTokenFormat indicates a token that does not match "ak_<prefix>.<secret>".
	ErrInvalidTokenFormat = errors.Wrap(errors.ErrUnauthorized, "invalid format")

	// ErrAPIKeyNotFound indicates no active key with the presented prefix.
	// Revoked keys produce the same error.
	ErrAPIKeyNotFound = errors.Wrap(errors.ErrUnauthorized, "not found")

	// ErrSecretMismatch indicates the presented secret differs from the stored one.
	ErrSecretMismatch = errors.Wrap(errors.ErrUnauthorized, "mismatch")

	// ErrIntegrity indicates the stored secret could not be decrypted with the current key.
	ErrIntegrity = errors.Wrap(errors.ErrUnauthorized, "integrity")

	// ErrOwnerMissing indicates an active key whose user no longer exists.
	ErrOwnerMissing = errors.Wrap(errors.ErrUnauthorized, "owner missing")

	// ErrStaleSignature indicates a signed request outside the accepted clock skew.
	ErrStaleSignature = errors.Wrap(errors.ErrUnauthorized, "stale")

	// ErrBadSignature indicates an X-Signature that does not match the request.
	ErrBadSignature = errors.Wrap(errors.ErrUnauthorized, "bad signature")

	// ErrInvalidTimestamp indicates a missing half of the signing headers or a
	// non-integer X-Timestamp.
	ErrInvalidTimestamp = errors.Wrap(errors.ErrBadRequest, "invalid timestamp")

	// ErrAPIKeyPrefixConflict indicates a prefix collision on insert.
	ErrAPIKeyPrefixConflict = errors.Wrap(errors.ErrConflict, "api key prefix already exists")
)

var failureReasons = []struct {
	err    error
	reason string
}{
	{ErrInvalidTokenFormat, "invalid_format"},
	{ErrAPIKeyNotFound, "not_found"},
	{ErrIntegrity, "integrity"},
	{ErrSecretMismatch, "mismatch"},
	{ErrOwnerMissing, "owner_missing"},
	{ErrStaleSignature, "stale"},
	{ErrBadSignature, "bad_signature"},
	{ErrInvalidTimestamp, "invalid_timestamp"},
}

// FailureReason returns a stable label for an authentication error, or "error" for
// anything else.
func FailureReason(err error) string {
	for _, fr := range failureReasons {
		if errors.Is(err, fr.err) {
			return fr.reason
		}
	}
	return "error"
}

// IsIntegrityFailure reports whether err points at server-side state rather than the
// caller's credentials.
func IsIntegrityFailure(err error) bool {
	return errors.Is(err, ErrIntegrity) || errors.Is(err, ErrOwnerMissing)
}
