package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/jobtracker/internal/apikey/domain"
	"github.com/allisson/jobtracker/internal/metrics"
)

const metricsDomain = "apikey"

// apiKeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apiKeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apiKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func record(ctx context.Context, m metrics.BusinessMetrics, operation, status string, start time.Time) {
	m.RecordOperation(ctx, metricsDomain, operation, status)
	m.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func statusOf(err error) string {
	if err != nil {
		return metrics.StatusError
	}
	return metrics.StatusSuccess
}

// Create records metrics for key issuance.
func (a *apiKeyUseCaseWithMetrics) Create(
	ctx context.Context,
	input *apikeyDomain.CreateAPIKeyInput,
) (*apikeyDomain.CreateAPIKeyOutput, error) {
	start := time.Now()
	output, err := a.next.Create(ctx, input)
	record(ctx, a.metrics, "apikey_create", statusOf(err), start)
	return output, err
}

// ListByUser records metrics for key listing.
func (a *apiKeyUseCaseWithMetrics) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*apikeyDomain.APIKey, error) {
	start := time.Now()
	keys, err := a.next.ListByUser(ctx, userID)
	record(ctx, a.metrics, "apikey_list", statusOf(err), start)
	return keys, err
}

// Revoke records metrics for key revocation.
func (a *apiKeyUseCaseWithMetrics) Revoke(ctx context.Context, keyID uuid.UUID) error {
	start := time.Now()
	err := a.next.Revoke(ctx, keyID)
	record(ctx, a.metrics, "apikey_revoke", statusOf(err), start)
	return err
}

// authenticatorWithMetrics decorates Authenticator. Failures are labelled by reason.
type authenticatorWithMetrics struct {
	next    Authenticator
	metrics metrics.BusinessMetrics
}

// NewAuthenticatorWithMetrics wraps an Authenticator with metrics recording.
func NewAuthenticatorWithMetrics(authenticator Authenticator, m metrics.BusinessMetrics) Authenticator {
	return &authenticatorWithMetrics{
		next:    authenticator,
		metrics: m,
	}
}

// Authenticate records the outcome and, on failure, the failure reason.
func (a *authenticatorWithMetrics) Authenticate(
	ctx context.Context,
	token string,
) (*apikeyDomain.Principal, error) {
	start := time.Now()
	principal, err := a.next.Authenticate(ctx, token)
	if err != nil {
		reason := apikeyDomain.FailureReason(err)
		a.metrics.RecordAuthFailure(ctx, reason)
		record(ctx, a.metrics, "authenticate", reason, start)
		return nil, err
	}
	record(ctx, a.metrics, "authenticate", metrics.StatusSuccess, start)
	return principal, nil
}
