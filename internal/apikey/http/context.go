// Package http provides the API key handlers and the authentication, signature and rate limit
// middleware for the /api route group.
package http

import (
	"context"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
)

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// WithPrincipal stores an authenticated principal in the context.
func WithPrincipal(ctx context.Context, principal *apikeyDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (nil, false) when APIKeyAuthMiddleware did not run.
func GetPrincipal(ctx context.Context) (*apikeyDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*apikeyDomain.Principal)
	return principal, ok && principal != nil
}
