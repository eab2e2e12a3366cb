package usecase

import (
	"context"
	"time"

	applicationDomain "github.com/allisson/jobtracker/internal/application/domain"
	"github.com/allisson/jobtracker/internal/metrics"
)

// applicationUseCaseWithMetrics decorates ApplicationUseCase with metrics instrumentation.
type applicationUseCaseWithMetrics struct {
	next    ApplicationUseCase
	metrics metrics.BusinessMetrics
}

// NewApplicationUseCaseWithMetrics wraps an ApplicationUseCase with metrics recording.
func NewApplicationUseCaseWithMetrics(useCase ApplicationUseCase, m metrics.BusinessMetrics) ApplicationUseCase {
	return &applicationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *applicationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	a.metrics.RecordOperation(ctx, "application", operation, status)
	a.metrics.RecordDuration(ctx, "application", operation, time.Since(start), status)
}

// Create records metrics for application creation.
func (a *applicationUseCaseWithMetrics) Create(
	ctx context.Context,
	input *applicationDomain.CreateApplicationInput,
) (*applicationDomain.Application, error) {
	start := time.Now()
	application, err := a.next.Create(ctx, input)
	a.record(ctx, "application_create", start, err)
	return application, err
}

// List records metrics for application listing.
func (a *applicationUseCaseWithMetrics) List(
	ctx context.Context,
	filter applicationDomain.ListApplicationsFilter,
) (*applicationDomain.ApplicationPage, error) {
	start := time.Now()
	page, err := a.next.List(ctx, filter)
	a.record(ctx, "application_list", start, err)
	return page, err
}
