// Package mocks provides testify mocks for the application use case layer.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	applicationDomain "github.com/allisson/jobtracker/internal/application/domain"
	userDomain "github.com/allisson/jobtracker/internal/user/domain"
)

// MockApplicationRepository is a mock implementation of usecase.ApplicationRepository.
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, application *applicationDomain.Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockApplicationRepository) List(
	ctx context.Context,
	filter applicationDomain.ListApplicationsFilter,
) ([]*applicationDomain.Application, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*applicationDomain.Application), args.Get(1).(int64), args.Error(2)
}

// MockUserRepository is a mock implementation of usecase.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// MockApplicationUseCase is a mock implementation of usecase.ApplicationUseCase.
type MockApplicationUseCase struct {
	mock.Mock
}

func (m *MockApplicationUseCase) Create(
	ctx context.Context,
	input *applicationDomain.CreateApplicationInput,
) (*applicationDomain.Application, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*applicationDomain.Application), args.Error(1)
}

func (m *MockApplicationUseCase) List(
	ctx context.Context,
	filter applicationDomain.ListApplicationsFilter,
) (*applicationDomain.ApplicationPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*applicationDomain.ApplicationPage), args.Error(1)
}
