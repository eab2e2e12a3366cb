// Package usecase defines business logic interfaces for job applications.
package usecase

import (
	"context"

	"github.com/google/uuid"

	applicationDomain "github.com/allisson/jobtracker/internal/application/domain"
	userDomain "github.com/allisson/jobtracker/internal/user/domain"
)

// ApplicationRepository defines persistence operations for applications.
type ApplicationRepository interface {
	// Create stores a new application.
	Create(ctx context.Context, application *applicationDomain.Application) error

	// List returns one page ordered by created_at desc, id desc, and the unpaged total.
	List(
		ctx context.Context,
		filter applicationDomain.ListApplicationsFilter,
	) ([]*applicationDomain.Application, int64, error)
}

// UserRepository is the owner lookup needed by this package.
type UserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)
}

// ApplicationUseCase defines business logic operations for job applications.
type ApplicationUseCase interface {
	// Create records an application for an existing user. Returns ErrUserNotFound otherwise.
	Create(
		ctx context.Context,
		input *applicationDomain.CreateApplicationInput,
	) (*applicationDomain.Application, error)

	// List returns a filtered page of applications.
	List(
		ctx context.Context,
		filter applicationDomain.ListApplicationsFilter,
	) (*applicationDomain.ApplicationPage, error)
}
